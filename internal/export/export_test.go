package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/drawdeck/internal/draw"
	"github.com/kingrea/drawdeck/internal/roster"
	"github.com/kingrea/drawdeck/internal/split"
)

var bomBytes = []byte{0xEF, 0xBB, 0xBF}

func sampleHistory() []draw.Entry {
	return []draw.Entry{
		{ID: "2", Winner: "李小華", Prize: "Grand, \"Prize\"", DrawnAt: time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)},
		{ID: "1", Winner: "Alice", Prize: "Mystery Prize", DrawnAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func sampleGroups() []split.Group {
	return []split.Group{
		{ID: "g1", Name: "Group One", Members: []roster.Participant{{ID: "a", Name: "Alice"}, {ID: "b", Name: "王小明"}}},
		{ID: "g2", Name: "Group Two", Members: []roster.Participant{{ID: "c", Name: "Carol"}}},
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	if !bytes.HasPrefix(data, bomBytes) {
		t.Fatal("export missing UTF-8 BOM")
	}
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bomBytes))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	return rows
}

func TestHistoryCSV(t *testing.T) {
	rows := parseCSV(t, HistoryCSV(sampleHistory()))
	if len(rows) != 3 {
		t.Fatalf("%d rows, want header + 2", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "time,prize,winner name" {
		t.Errorf("header = %q", got)
	}
	// Most recent first, multibyte and quoted fields intact.
	if rows[1][2] != "李小華" || rows[2][2] != "Alice" {
		t.Errorf("row order/content wrong: %v", rows[1:])
	}
	if rows[1][1] != "Grand, \"Prize\"" {
		t.Errorf("quoting lost: %q", rows[1][1])
	}
}

func TestGroupsCSV(t *testing.T) {
	rows := parseCSV(t, GroupsCSV(sampleGroups()))
	if len(rows) != 4 {
		t.Fatalf("%d rows, want header + 3", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "group name,member name" {
		t.Errorf("header = %q", got)
	}
	want := [][2]string{{"Group One", "Alice"}, {"Group One", "王小明"}, {"Group Two", "Carol"}}
	for i, w := range want {
		if rows[i+1][0] != w[0] || rows[i+1][1] != w[1] {
			t.Errorf("row %d = %v, want %v", i+1, rows[i+1], w)
		}
	}
}

func TestFileNamesEmbedDate(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	if got := HistoryFileName(now); got != "draw-history_2025-12-31.csv" {
		t.Errorf("history filename = %q", got)
	}
	if got := GroupsFileName(now); got != "teams_2025-12-31.csv" {
		t.Errorf("groups filename = %q", got)
	}
}

func TestWriteExportsCreateFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	path, err := WriteHistoryCSV(dir, sampleHistory(), now)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, bomBytes) {
		t.Error("written file missing BOM")
	}

	path, err = WriteGroupsCSV(dir, sampleGroups(), now)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "teams_2025-06-01.csv" {
		t.Errorf("groups path = %q", path)
	}
}

func TestGroupsText(t *testing.T) {
	text := GroupsText(sampleGroups())
	for _, want := range []string{
		"Group One (2)",
		"Members: Alice, 王小明",
		"Group Two (1)",
		"Members: Carol",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("clipboard text missing %q:\n%s", want, text)
		}
	}
}
