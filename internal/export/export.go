// internal/export/export.go
//
// Export renders draw history and group assignments for the outside world:
// BOM-prefixed CSV files that spreadsheet tools open with non-ASCII names
// intact, and a plain-text block for the clipboard.

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/kingrea/drawdeck/internal/draw"
	"github.com/kingrea/drawdeck/internal/split"
)

// bom is the UTF-8 byte-order marker Excel needs to detect the encoding.
const bom = "\uFEFF"

// HistoryCSV renders the draw history, most recent first, with a header
// row. Fields are quoted by encoding/csv as needed.
func HistoryCSV(history []draw.Entry) []byte {
	var buf bytes.Buffer
	buf.WriteString(bom)
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"time", "prize", "winner name"})
	for _, e := range history {
		_ = w.Write([]string{e.DrawnAt.Format("2006-01-02 15:04:05"), e.Prize, e.Winner})
	}
	w.Flush()
	return buf.Bytes()
}

// GroupsCSV renders one row per (group, member) pair, groups in creation
// order and members in assigned order.
func GroupsCSV(groups []split.Group) []byte {
	var buf bytes.Buffer
	buf.WriteString(bom)
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"group name", "member name"})
	for _, g := range groups {
		for _, m := range g.Members {
			_ = w.Write([]string{g.Name, m.Name})
		}
	}
	w.Flush()
	return buf.Bytes()
}

// HistoryFileName embeds the export date so repeated exports don't clobber
// each other day to day.
func HistoryFileName(now time.Time) string {
	return fmt.Sprintf("draw-history_%s.csv", now.Format("2006-01-02"))
}

// GroupsFileName is the dated filename for a group-assignment export.
func GroupsFileName(now time.Time) string {
	return fmt.Sprintf("teams_%s.csv", now.Format("2006-01-02"))
}

// WriteHistoryCSV writes the history export into dir and returns the path.
func WriteHistoryCSV(dir string, history []draw.Entry, now time.Time) (string, error) {
	return writeFile(dir, HistoryFileName(now), HistoryCSV(history))
}

// WriteGroupsCSV writes the group export into dir and returns the path.
func WriteGroupsCSV(dir string, groups []split.Group, now time.Time) (string, error) {
	return writeFile(dir, GroupsFileName(now), GroupsCSV(groups))
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: ensure dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", name, err)
	}
	return path, nil
}

// GroupsText renders the human-readable clipboard block: each group's
// name, member count, and comma-joined members.
func GroupsText(groups []split.Group) string {
	var b strings.Builder
	b.WriteString("Team Assignments\n\n")
	for _, g := range groups {
		names := make([]string, len(g.Members))
		for i, m := range g.Members {
			names[i] = m.Name
		}
		fmt.Fprintf(&b, "%s (%d)\nMembers: %s\n\n", g.Name, len(g.Members), strings.Join(names, ", "))
	}
	return b.String()
}

// CopyGroups puts the plain-text block on the system clipboard.
func CopyGroups(groups []split.Group) error {
	if err := clipboard.WriteAll(GroupsText(groups)); err != nil {
		return fmt.Errorf("export: clipboard write: %w", err)
	}
	return nil
}
