// internal/tui/draw.go
//
// The lucky-draw tab. A draw rolls through random names from the full
// roster for excitement, then settles on a winner from the eligible pool.
// Rolling is driven by tea.Tick messages carrying the engine's animation
// token; ticks from an abandoned draw are dropped on arrival.

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/drawdeck/internal/draw"
	"github.com/kingrea/drawdeck/internal/export"
)

type rollTickMsg struct {
	token int
}

func rollTick(token int) tea.Cmd {
	return tea.Tick(draw.RollInterval, func(time.Time) tea.Msg {
		return rollTickMsg{token: token}
	})
}

type drawView struct {
	prize           textinput.Model
	allowDuplicates bool
	rolling         string
	winner          string
}

func newDrawView(defaultPrize string) drawView {
	ti := textinput.New()
	ti.Placeholder = defaultPrize
	ti.CharLimit = 80
	ti.Width = 30
	return drawView{prize: ti}
}

func (v *drawView) typing() bool { return v.prize.Focused() }

func (v *drawView) update(a *App, msg tea.Msg) tea.Cmd {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}

	if v.prize.Focused() {
		switch key.String() {
		case "esc", "enter":
			v.prize.Blur()
			return nil
		}
		var cmd tea.Cmd
		v.prize, cmd = v.prize.Update(msg)
		return cmd
	}

	switch key.String() {
	case "enter", " ":
		return v.startDraw(a)
	case "p":
		return v.prize.Focus()
	case "a":
		v.allowDuplicates = !v.allowDuplicates
		if v.allowDuplicates {
			a.statusMsg = "Repeat winners allowed"
		} else {
			a.statusMsg = "Repeat winners excluded"
		}
	case "r":
		a.requestConfirm(confirmResetPool)
	case "e":
		v.exportHistory(a)
	}
	return nil
}

// startDraw kicks off the rolling animation. An empty eligible pool is
// rejected with an inline notice and no state change; a draw already
// rolling is left alone.
func (v *drawView) startDraw(a *App) tea.Cmd {
	if a.engine.State() == draw.StateRolling {
		return nil
	}
	err := a.engine.Start(a.store.Participants(), a.store.Excluded())
	if errors.Is(err, draw.ErrEmptyPool) {
		a.statusMsg = "The draw pool is empty — reset the pool or add participants"
		a.logWarn("Draw rejected · empty pool")
		return nil
	}
	if err != nil {
		a.statusMsg = err.Error()
		return nil
	}
	v.winner = ""
	v.rolling = ""
	a.statusMsg = "Drawing..."
	return rollTick(a.engine.Token())
}

// handleRollTick advances one animation frame. Stale tokens mean the draw
// was canceled or superseded; those ticks do nothing.
func (v *drawView) handleRollTick(a *App, msg rollTickMsg) tea.Cmd {
	name, done, ok := a.engine.Roll(msg.token)
	if !ok {
		return nil
	}
	v.rolling = name
	if !done {
		return rollTick(msg.token)
	}

	winner := a.engine.Winner()
	entry := a.store.RecordWin(winner, v.prize.Value(), v.allowDuplicates, time.Now())
	v.rolling = ""
	v.winner = winner.Name
	a.statusMsg = fmt.Sprintf("Winner: %s", winner.Name)
	a.logInfo("Draw settled · %s wins %s", entry.Winner, entry.Prize)
	return nil
}

// cancelRoll abandons an in-progress animation, e.g. when the user resets
// the pool or leaves the tab mid-roll.
func (v *drawView) cancelRoll(a *App) {
	if a.engine.State() == draw.StateRolling {
		a.engine.Cancel()
		v.rolling = ""
		a.logInfo("Draw animation abandoned")
	}
}

func (v *drawView) exportHistory(a *App) {
	history := a.store.History()
	if len(history) == 0 {
		a.statusMsg = "No draw history to export"
		return
	}
	path, err := export.WriteHistoryCSV(a.cfg.ExportDir(), history, time.Now())
	if err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		a.logError("History export failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("History exported to %s", path)
	a.logInfo("History exported to %s", path)
}

func (v *drawView) view(a *App, width int) string {
	pool := a.store.EligiblePool()
	total := a.store.Count()

	dupLabel := "OFF"
	if v.allowDuplicates {
		dupLabel = "ON"
	}
	status := fmt.Sprintf("Pool: %d / %d eligible    Repeat winners: %s", len(pool), total, dupLabel)

	var stage string
	switch {
	case v.rolling != "":
		stage = rollingStyle.Render(v.rolling)
	case v.winner != "":
		stage = winnerStyle.Render("★ " + v.winner + " ★")
	case len(pool) == 0 && total > 0:
		stage = dimStyle.Render("Pool exhausted — press r to reset")
	default:
		stage = dimStyle.Render("Press enter to draw")
	}

	sections := []string{
		titleStyle.Render("Lucky Draw"),
		status,
		"Prize: " + v.prize.View(),
		stage,
		v.renderHistory(a),
		dimStyle.Render("enter draw · p prize · a repeats · r reset pool · e export csv"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *drawView) renderHistory(a *App) string {
	history := a.store.History()
	if len(history) == 0 {
		return dimStyle.Render("No draws yet")
	}
	rows := []string{titleStyle.Render(fmt.Sprintf("History (%d)", len(history)))}
	shown := history
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, e := range shown {
		rows = append(rows, fmt.Sprintf("%s  %-20s  %s",
			e.DrawnAt.Format("15:04:05"), e.Prize, e.Winner))
	}
	if len(history) > len(shown) {
		rows = append(rows, dimStyle.Render(fmt.Sprintf("… %d more", len(history)-len(shown))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
