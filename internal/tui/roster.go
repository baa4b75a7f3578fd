// internal/tui/roster.go
//
// The roster tab: paste names in, save them as the participant list, spot
// and remove duplicates, and prune individual rows.

package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/drawdeck/internal/roster"
)

type rosterView struct {
	input    textarea.Model
	file     textinput.Model
	selected int
}

func newRosterView() rosterView {
	ta := textarea.New()
	ta.Placeholder = "One name per line, or comma separated"
	ta.ShowLineNumbers = false
	ta.SetWidth(40)
	ta.SetHeight(10)

	file := textinput.New()
	file.Placeholder = "path/to/names.csv"
	file.CharLimit = 200
	file.Width = 34

	return rosterView{input: ta, file: file}
}

func (v *rosterView) typing() bool { return v.input.Focused() || v.file.Focused() }

func (v *rosterView) resize(width, height int) {
	v.input.SetWidth(max(30, width/2-6))
	v.input.SetHeight(max(6, height-16))
}

func (v *rosterView) update(a *App, msg tea.Msg) tea.Cmd {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}

	if v.input.Focused() {
		switch key.String() {
		case "esc":
			v.input.Blur()
			return nil
		case "ctrl+s":
			v.input.Blur()
			v.save(a)
			return nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd
	}

	if v.file.Focused() {
		switch key.String() {
		case "esc":
			v.file.Blur()
			return nil
		case "enter":
			v.file.Blur()
			v.loadFile(a)
			return nil
		}
		var cmd tea.Cmd
		v.file, cmd = v.file.Update(msg)
		return cmd
	}

	list := a.store.Participants()
	switch key.String() {
	case "i", "enter":
		return v.input.Focus()
	case "f":
		return v.file.Focus()
	case "s":
		v.save(a)
	case "d":
		before := a.store.Count()
		a.store.DedupeParticipants()
		v.refill(a)
		removed := before - a.store.Count()
		a.statusMsg = fmt.Sprintf("Removed %d duplicate(s)", removed)
		if removed > 0 {
			a.logInfo("Deduped roster · %d removed", removed)
		}
	case "c":
		if a.store.Count() > 0 {
			a.requestConfirm(confirmClearRoster)
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(list)-1 {
			v.selected++
		}
	case "x", "backspace":
		if v.selected >= 0 && v.selected < len(list) {
			removed := list[v.selected]
			a.store.RemoveParticipant(removed.ID)
			v.refill(a)
			if v.selected >= a.store.Count() && v.selected > 0 {
				v.selected--
			}
			a.statusMsg = fmt.Sprintf("Removed %s", removed.Name)
			a.logInfo("Removed participant %s", removed.Name)
		}
	}
	return nil
}

// save parses the textarea into a fresh participant list and swaps it in
// wholesale. Saving an empty box clears the roster, which also resets the
// draw history and pool.
func (v *rosterView) save(a *App) {
	list := roster.Parse(v.input.Value())
	a.store.ReplaceParticipants(list)
	v.refill(a)
	v.selected = 0
	a.statusMsg = fmt.Sprintf("Saved %d participant(s)", len(list))
	a.logInfo("Roster saved · %d participant(s)", len(list))
}

// loadFile imports a CSV or text file: every non-empty token is a name,
// with no header-row semantics.
func (v *rosterView) loadFile(a *App) {
	path := strings.TrimSpace(v.file.Value())
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Could not read %s: %v", path, err)
		a.logError("Roster import failed: %v", err)
		return
	}
	list := roster.Parse(string(data))
	a.store.ReplaceParticipants(list)
	v.refill(a)
	v.selected = 0
	a.statusMsg = fmt.Sprintf("Imported %d participant(s) from %s", len(list), path)
	a.logInfo("Roster imported · %d participant(s) from %s", len(list), path)
}

// refill mirrors the canonical list back into the textarea, one name per
// line, so the box always shows what is actually saved.
func (v *rosterView) refill(a *App) {
	v.input.SetValue(strings.Join(roster.Names(a.store.Participants()), "\n"))
}

func (v *rosterView) view(a *App, width int) string {
	list := a.store.Participants()
	dups := roster.DuplicateNames(list)

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Import participants"),
		v.input.View(),
		"File: "+v.file.View(),
		dimStyle.Render("i edit · ctrl+s save · s save · f import file · d dedupe · c clear all"),
	)

	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Current roster (%d)", len(list))))
	if len(list) == 0 {
		rows = append(rows, dimStyle.Render("No participants yet. Paste names on the left."))
	} else {
		for i, p := range list {
			line := fmt.Sprintf("%3d. %s", i+1, p.Name)
			if dups[strings.TrimSpace(p.Name)] {
				line += warnStyle.Render("  [dup]")
			}
			if i == v.selected {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			rows = append(rows, line)
		}
		rows = append(rows, dimStyle.Render("↑/↓ select · x remove"))
	}
	right := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(max(34, width/2-4)).Render(left),
		right,
	)
}
