// internal/tui/app.go
//
// This is the main TUI for DrawDeck. It uses bubbletea, which follows The
// Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// Three tabs mirror the tool's three jobs: managing the roster, running
// the lucky draw, and splitting the roster into teams.

package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/drawdeck/internal/config"
	"github.com/kingrea/drawdeck/internal/draw"
	"github.com/kingrea/drawdeck/internal/logbook"
	"github.com/kingrea/drawdeck/internal/naming"
	"github.com/kingrea/drawdeck/internal/state"
)

// tab represents which screen we're on.
type tab int

const (
	tabRoster tab = iota
	tabDraw
	tabSplit
)

// confirmKind identifies which destructive action is awaiting a yes/no.
// Declining leaves all state untouched.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmClearRoster
	confirmResetPool
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithNamer overrides the AI naming collaborator.
func WithNamer(n naming.Namer) AppOption {
	return func(a *App) {
		if n != nil {
			a.namer = n
		}
	}
}

// WithRand seeds the split shuffle deterministically for tests.
func WithRand(rng *rand.Rand) AppOption {
	return func(a *App) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your
// state.
type App struct {
	cfg    *config.Config
	store  *state.Coordinator
	engine *draw.Engine
	namer  naming.Namer
	log    *logbook.Logbook
	rng    *rand.Rand

	tab       tab
	confirm   confirmKind
	statusMsg string

	roster rosterView
	draw   drawView
	split  splitView

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App instance rooted at the given config.
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		lb = nil
	}
	app := &App{
		cfg:    cfg,
		store:  state.New(),
		engine: draw.New(),
		namer:  naming.NewClient(cfg.GeminiAPIKey(), naming.WithModel(cfg.File.Naming.Model)),
		log:    lb,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		tab:    tabRoster,
	}
	app.roster = newRosterView()
	app.draw = newDrawView(cfg.File.Draw.DefaultPrize)
	app.split = newSplitView(cfg.File.Naming.Theme, cfg.File.Naming.Enabled)
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.logInfo("Session opened")
	return app
}

func (a *App) logInfo(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.roster.resize(msg.Width, msg.Height)
		return a, nil

	case rollTickMsg:
		return a, a.draw.handleRollTick(a, msg)

	case teamNamesMsg:
		a.split.handleTeamNames(a, msg)
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// The confirm dialog swallows everything until answered.
		if a.confirm != confirmNone {
			return a, a.handleConfirmKey(key)
		}

		switch key {
		case "ctrl+c":
			a.teardown()
			return a, tea.Quit
		}

		if !a.typingActive() {
			switch key {
			case "q":
				a.teardown()
				return a, tea.Quit
			case "1", "2", "3":
				a.switchTab(tab(int(key[0] - '1')))
				return a, nil
			case "tab":
				a.switchTab((a.tab + 1) % 3)
				return a, nil
			}
		}
	}

	switch a.tab {
	case tabRoster:
		return a, a.roster.update(a, msg)
	case tabDraw:
		return a, a.draw.update(a, msg)
	case tabSplit:
		return a, a.split.update(a, msg)
	}
	return a, nil
}

// typingActive reports whether some text field currently owns the
// keyboard, so single-letter hotkeys must stay out of the way.
func (a *App) typingActive() bool {
	switch a.tab {
	case tabRoster:
		return a.roster.typing()
	case tabDraw:
		return a.draw.typing()
	case tabSplit:
		return a.split.typing()
	}
	return false
}

// switchTab changes screens. Leaving the draw tab mid-roll abandons the
// animation so a stale frame can never overwrite a fresh state.
func (a *App) switchTab(next tab) {
	if a.tab == tabDraw && next != tabDraw {
		a.draw.cancelRoll(a)
	}
	a.tab = next
	a.statusMsg = ""
}

// teardown cancels pending animation callbacks and closes the logbook.
func (a *App) teardown() {
	a.engine.Cancel()
	a.logInfo("Session closed")
	if a.log != nil {
		_ = a.log.Close()
	}
}

// requestConfirm arms the yes/no dialog for a destructive action.
func (a *App) requestConfirm(kind confirmKind) {
	a.confirm = kind
}

func (a *App) handleConfirmKey(key string) tea.Cmd {
	switch key {
	case "y", "Y", "enter":
		kind := a.confirm
		a.confirm = confirmNone
		return a.applyConfirmed(kind)
	case "n", "N", "esc":
		a.confirm = confirmNone
		a.statusMsg = "Cancelled"
	}
	return nil
}

func (a *App) applyConfirmed(kind confirmKind) tea.Cmd {
	switch kind {
	case confirmClearRoster:
		a.draw.cancelRoll(a)
		a.store.ReplaceParticipants(nil)
		a.roster.input.SetValue("")
		a.roster.selected = 0
		a.statusMsg = "Roster cleared"
		a.logInfo("Roster cleared · history and pool reset")
	case confirmResetPool:
		a.draw.cancelRoll(a)
		a.store.ResetPool()
		a.statusMsg = "Draw pool reset"
		a.logInfo("Draw pool reset")
	}
	return nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	header := headerStyle.Render("◆ DRAWDECK")
	tabs := a.renderTabBar()

	var content string
	switch a.tab {
	case tabRoster:
		content = a.roster.view(a, width)
	case tabDraw:
		content = a.draw.view(a, width)
	case tabSplit:
		content = a.split.view(a, width)
	}
	body := panelStyle.Width(max(40, width-2)).Render(content)

	sections := []string{header, tabs, body}
	if a.confirm != confirmNone {
		sections = append(sections, a.renderConfirm())
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := footerStyle.Render(a.footerLine())
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderTabBar() string {
	labels := []string{"1 Roster", "2 Lucky Draw", "3 Team Split"}
	rendered := make([]string, len(labels))
	for i, label := range labels {
		if tab(i) == a.tab {
			rendered[i] = activeTabStyle.Render(label)
		} else {
			rendered[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a *App) renderConfirm() string {
	var question string
	switch a.confirm {
	case confirmClearRoster:
		question = "Clear the entire roster? Draw history and pool reset too."
	case confirmResetPool:
		question = "Clear the draw history and reset the pool?"
	}
	return confirmStyle.Render(fmt.Sprintf("%s  [y]es / [n]o", question))
}

func (a *App) renderLogPanel() string {
	if a.log == nil {
		return ""
	}
	lines := a.log.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	head := logHeadStyle.Render("LOG")
	body := logBodyStyle.Render(strings.Join(lines, "\n"))
	return logPanelStyle.Render(head + "\n" + body)
}

func (a *App) footerLine() string {
	hints := "tab/1-3 switch · q quit"
	if a.statusMsg == "" {
		return hints
	}
	return a.statusMsg + "  ·  " + hints
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
