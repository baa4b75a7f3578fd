package tui

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/drawdeck/internal/config"
	"github.com/kingrea/drawdeck/internal/draw"
	"github.com/kingrea/drawdeck/internal/roster"
)

type stubNamer struct {
	names []string
	err   error
	calls int
}

func (s *stubNamer) TeamNames(ctx context.Context, count int, theme string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.names) > count {
		return s.names[:count], nil
	}
	return s.names, nil
}

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitDir(projectDir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	cfg, err := config.New(projectDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	baseOpts := []AppOption{WithRand(rand.New(rand.NewSource(1)))}
	baseOpts = append(baseOpts, opts...)
	return NewApp(cfg, baseOpts...)
}

func seedRoster(a *App, raw string) []roster.Participant {
	list := roster.Parse(raw)
	a.store.ReplaceParticipants(list)
	return list
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRosterSaveParsesTextarea(t *testing.T) {
	app := newTestApp(t)
	app.roster.input.SetValue("Alice, Bob\nCarol")
	app.roster.save(app)
	if got := app.store.Count(); got != 3 {
		t.Fatalf("saved %d participants, want 3", got)
	}
	// The textarea is refilled one name per line.
	if got := app.roster.input.Value(); got != "Alice\nBob\nCarol" {
		t.Errorf("textarea = %q", got)
	}
}

func TestRosterImportFromFile(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "names.csv")
	if err := os.WriteFile(path, []byte("Alice,Bob\n王小明\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app.roster.file.SetValue(path)
	app.roster.loadFile(app)
	if got := app.store.Count(); got != 3 {
		t.Fatalf("imported %d participants, want 3", got)
	}
	if app.store.Participants()[2].Name != "王小明" {
		t.Error("multibyte name did not round-trip")
	}
}

func TestRosterImportMissingFileLeavesState(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "x,y")
	app.roster.file.SetValue(filepath.Join(t.TempDir(), "nope.csv"))
	app.roster.loadFile(app)
	if app.store.Count() != 2 {
		t.Error("failed import mutated the roster")
	}
	if app.statusMsg == "" {
		t.Error("failed import should leave a notice")
	}
}

func TestDrawFlowSettlesAndRecords(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "x,y,z")

	cmd := app.draw.startDraw(app)
	if cmd == nil {
		t.Fatal("draw should start")
	}
	if app.engine.State() != draw.StateRolling {
		t.Fatal("engine should be rolling")
	}
	token := app.engine.Token()
	for app.engine.State() == draw.StateRolling {
		app.draw.handleRollTick(app, rollTickMsg{token: token})
	}
	if app.engine.State() != draw.StateSettled {
		t.Fatalf("state = %v", app.engine.State())
	}
	history := app.store.History()
	if len(history) != 1 {
		t.Fatalf("history = %d entries", len(history))
	}
	if history[0].Winner != app.draw.winner {
		t.Error("displayed winner does not match history")
	}
	// Duplicates disallowed by default: the winner is now excluded.
	if len(app.store.EligiblePool()) != 2 {
		t.Errorf("pool = %d, want 2", len(app.store.EligiblePool()))
	}
}

func TestDrawRejectedOnEmptyPool(t *testing.T) {
	app := newTestApp(t)
	if cmd := app.draw.startDraw(app); cmd != nil {
		t.Fatal("draw on empty roster must not start")
	}
	if app.statusMsg == "" {
		t.Error("empty pool should leave a visible notice")
	}
	if len(app.store.History()) != 0 {
		t.Error("rejected draw mutated history")
	}
}

func TestStaleTickDroppedAfterCancel(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "x,y,z")

	if cmd := app.draw.startDraw(app); cmd == nil {
		t.Fatal("draw should start")
	}
	stale := app.engine.Token()
	app.draw.cancelRoll(app)

	app.draw.handleRollTick(app, rollTickMsg{token: stale})
	if len(app.store.History()) != 0 {
		t.Error("stale tick settled a canceled draw")
	}
	if app.engine.State() != draw.StateIdle {
		t.Errorf("state = %v, want idle", app.engine.State())
	}
}

func TestSwitchingTabsAbandonsRoll(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "x,y")
	app.tab = tabDraw
	if cmd := app.draw.startDraw(app); cmd == nil {
		t.Fatal("draw should start")
	}
	app.switchTab(tabRoster)
	if app.engine.State() != draw.StateIdle {
		t.Error("leaving the draw tab must abandon the animation")
	}
}

func TestConfirmFlow(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "x,y,z")

	app.requestConfirm(confirmClearRoster)
	model, _ := app.Update(keyMsg("n"))
	app = model.(*App)
	if app.confirm != confirmNone {
		t.Fatal("decline should dismiss the dialog")
	}
	if app.store.Count() != 3 {
		t.Fatal("decline must leave the roster untouched")
	}

	app.requestConfirm(confirmClearRoster)
	model, _ = app.Update(keyMsg("y"))
	app = model.(*App)
	if app.store.Count() != 0 {
		t.Fatal("accept should clear the roster")
	}
	if len(app.store.History()) != 0 || len(app.store.Excluded()) != 0 {
		t.Fatal("clearing the roster must reset history and pool")
	}
}

func TestResetPoolConfirm(t *testing.T) {
	app := newTestApp(t)
	list := seedRoster(app, "x,y")
	app.store.RecordWin(list[0], "Hat", false, time.Now())

	app.requestConfirm(confirmResetPool)
	model, _ := app.Update(keyMsg("y"))
	app = model.(*App)
	if app.store.Count() != 2 {
		t.Error("reset must not touch the roster")
	}
	if len(app.store.History()) != 0 || len(app.store.Excluded()) != 0 {
		t.Error("reset left history or exclusions behind")
	}
}

func TestSplitAppliesStubNames(t *testing.T) {
	namer := &stubNamer{names: []string{"Rockets", "Comets"}}
	app := newTestApp(t, WithNamer(namer))
	seedRoster(app, "a,b,c,d")
	app.split.useAI = true
	app.split.value.SetValue("2")

	cmd := app.split.performSplit(app)
	if cmd == nil {
		t.Fatal("AI split should fetch names")
	}
	if len(app.split.groups) != 2 {
		t.Fatalf("groups = %d", len(app.split.groups))
	}
	msg := cmd()
	model, _ := app.Update(msg)
	app = model.(*App)
	if namer.calls != 1 {
		t.Fatalf("namer called %d times", namer.calls)
	}
	if app.split.groups[0].Name != "Rockets" || app.split.groups[1].Name != "Comets" {
		t.Errorf("names = %q, %q", app.split.groups[0].Name, app.split.groups[1].Name)
	}
}

func TestSplitNamerFailureKeepsOrdinals(t *testing.T) {
	namer := &stubNamer{err: errors.New("boom")}
	app := newTestApp(t, WithNamer(namer))
	seedRoster(app, "a,b,c,d,e,f")
	app.split.useAI = true
	app.split.value.SetValue("3")

	cmd := app.split.performSplit(app)
	if cmd == nil {
		t.Fatal("AI split should fetch names")
	}
	msg := cmd()
	model, _ := app.Update(msg)
	app = model.(*App)
	want := []string{"Group One", "Group Two", "Group Three"}
	for i, g := range app.split.groups {
		if g.Name != want[i] {
			t.Errorf("group %d = %q, want %q", i, g.Name, want[i])
		}
	}
}

func TestStaleTeamNamesDropped(t *testing.T) {
	namer := &stubNamer{names: []string{"Old One", "Old Two"}}
	app := newTestApp(t, WithNamer(namer))
	seedRoster(app, "a,b,c,d")
	app.split.useAI = true
	app.split.value.SetValue("2")

	first := app.split.performSplit(app)
	firstMsg := first()

	// A second split supersedes the first before its names arrive.
	second := app.split.performSplit(app)
	if second == nil {
		t.Fatal("second split should fetch names")
	}

	model, _ := app.Update(firstMsg)
	app = model.(*App)
	if app.split.groups[0].Name != "Group One" {
		t.Errorf("stale names applied: %q", app.split.groups[0].Name)
	}
}

func TestSplitWithoutAIIsSynchronous(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "a,b,c")
	app.split.useAI = false
	app.split.value.SetValue("3")
	if cmd := app.split.performSplit(app); cmd != nil {
		t.Fatal("ordinal-only split should not fetch names")
	}
	if len(app.split.groups) != 3 {
		t.Fatalf("groups = %d", len(app.split.groups))
	}
}

func TestSplitRejectedOnEmptyRoster(t *testing.T) {
	app := newTestApp(t)
	if cmd := app.split.performSplit(app); cmd != nil {
		t.Fatal("split on empty roster must not run")
	}
	if len(app.split.groups) != 0 {
		t.Error("rejected split produced groups")
	}
	if app.statusMsg == "" {
		t.Error("empty roster should leave a visible notice")
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	app := newTestApp(t)
	seedRoster(app, "a,b,c")
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(*App)
	for _, tb := range []tab{tabRoster, tabDraw, tabSplit} {
		app.tab = tb
		if app.View() == "" {
			t.Errorf("tab %d rendered empty", tb)
		}
	}
}
