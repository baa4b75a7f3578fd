// internal/tui/split.go
//
// The team-split tab. Splitting happens immediately with ordinal group
// names; when AI naming is on, themed names are fetched asynchronously and
// overlaid when they arrive. A newer split bumps the naming generation so
// a slow response can never rename the wrong groups.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/drawdeck/internal/export"
	"github.com/kingrea/drawdeck/internal/naming"
	"github.com/kingrea/drawdeck/internal/split"
)

type teamNamesMsg struct {
	gen   int
	names []string
	err   error
}

const namingTimeout = 20 * time.Second

func fetchTeamNames(namer naming.Namer, gen, count int, theme string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), namingTimeout)
		defer cancel()
		names, err := namer.TeamNames(ctx, count, theme)
		return teamNamesMsg{gen: gen, names: names, err: err}
	}
}

type splitView struct {
	mode     split.Mode
	value    textinput.Model
	theme    textinput.Model
	rename   textinput.Model
	useAI    bool
	renaming bool

	groups   []split.Group
	selected int

	gen     int
	pending bool
}

func newSplitView(defaultTheme string, aiEnabled bool) splitView {
	value := textinput.New()
	value.SetValue("4")
	value.CharLimit = 4
	value.Width = 6

	theme := textinput.New()
	theme.SetValue(defaultTheme)
	theme.CharLimit = 60
	theme.Width = 24

	rename := textinput.New()
	rename.CharLimit = 60
	rename.Width = 24

	return splitView{mode: split.ModeGroupCount, value: value, theme: theme, rename: rename, useAI: aiEnabled}
}

func (v *splitView) typing() bool {
	return v.value.Focused() || v.theme.Focused() || v.renaming
}

func (v *splitView) update(a *App, msg tea.Msg) tea.Cmd {
	key, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return nil
	}

	if v.renaming {
		switch key.String() {
		case "enter":
			if v.selected < len(v.groups) {
				id := v.groups[v.selected].ID
				name := strings.TrimSpace(v.rename.Value())
				if name != "" {
					v.groups = split.Rename(v.groups, id, name)
					a.logInfo("Group renamed to %s", name)
				}
			}
			v.renaming = false
			v.rename.Blur()
			return nil
		case "esc":
			v.renaming = false
			v.rename.Blur()
			return nil
		}
		var cmd tea.Cmd
		v.rename, cmd = v.rename.Update(msg)
		return cmd
	}

	if v.value.Focused() || v.theme.Focused() {
		switch key.String() {
		case "esc", "enter":
			v.value.Blur()
			v.theme.Blur()
			return nil
		}
		var cmd tea.Cmd
		if v.value.Focused() {
			v.value, cmd = v.value.Update(msg)
		} else {
			v.theme, cmd = v.theme.Update(msg)
		}
		return cmd
	}

	switch key.String() {
	case "m":
		if v.mode == split.ModeGroupCount {
			v.mode = split.ModeGroupSize
			a.statusMsg = "Mode: fixed group size"
		} else {
			v.mode = split.ModeGroupCount
			a.statusMsg = "Mode: fixed group count"
		}
	case "v":
		return v.value.Focus()
	case "t":
		return v.theme.Focus()
	case "g":
		v.useAI = !v.useAI
		if v.useAI {
			a.statusMsg = "AI team naming on"
		} else {
			a.statusMsg = "AI team naming off"
		}
	case "enter", " ":
		return v.performSplit(a)
	case "n":
		if len(v.groups) > 0 {
			v.renaming = true
			v.rename.SetValue(v.groups[v.selected].Name)
			return v.rename.Focus()
		}
	case "up", "k", "left", "h":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j", "right", "l":
		if v.selected < len(v.groups)-1 {
			v.selected++
		}
	case "c":
		v.copyGroups(a)
	case "e":
		v.exportGroups(a)
	}
	return nil
}

// performSplit shuffles and deals immediately; themed names arrive later
// as a teamNamesMsg and are overlaid only if no newer split happened.
func (v *splitView) performSplit(a *App) tea.Cmd {
	policy := split.Policy{Mode: v.mode, Value: v.policyValue()}
	groups, err := split.Split(a.rng, a.store.Participants(), policy)
	if errors.Is(err, split.ErrNoParticipants) {
		a.statusMsg = "The roster is empty — nothing to split"
		a.logWarn("Split rejected · empty roster")
		return nil
	}
	if err != nil {
		a.statusMsg = err.Error()
		return nil
	}
	v.groups = groups
	v.selected = 0
	v.renaming = false
	v.gen++
	a.statusMsg = fmt.Sprintf("Split into %d group(s)", len(groups))
	a.logInfo("Split %d participant(s) into %d group(s)", a.store.Count(), len(groups))

	if !v.useAI {
		return nil
	}
	v.pending = true
	return fetchTeamNames(a.namer, v.gen, len(groups), strings.TrimSpace(v.theme.Value()))
}

// handleTeamNames overlays themed names. Failures fall back silently to
// the ordinal names already in place.
func (v *splitView) handleTeamNames(a *App, msg teamNamesMsg) {
	if msg.gen != v.gen {
		return
	}
	v.pending = false
	if msg.err != nil {
		if errors.Is(msg.err, naming.ErrUnavailable) {
			a.statusMsg = "AI naming unavailable — using default names (set GEMINI_API_KEY)"
		} else {
			a.statusMsg = "AI naming failed — using default names"
		}
		a.logWarn("Team naming fell back to defaults: %v", msg.err)
		return
	}
	split.ApplyNames(v.groups, msg.names)
	a.statusMsg = "Teams named"
	a.logInfo("Applied %d AI team name(s)", len(msg.names))
}

// policyValue parses the numeric input, falling back to 1 on garbage. The
// splitter applies its own clamping on top.
func (v *splitView) policyValue() int {
	n, err := strconv.Atoi(strings.TrimSpace(v.value.Value()))
	if err != nil {
		return 1
	}
	return n
}

func (v *splitView) copyGroups(a *App) {
	if len(v.groups) == 0 {
		a.statusMsg = "No groups to copy"
		return
	}
	if err := export.CopyGroups(v.groups); err != nil {
		a.statusMsg = "Clipboard copy failed — select the text manually"
		a.logError("Clipboard copy failed: %v", err)
		return
	}
	a.statusMsg = "Group list copied to clipboard"
	a.logInfo("Groups copied to clipboard")
}

func (v *splitView) exportGroups(a *App) {
	if len(v.groups) == 0 {
		a.statusMsg = "No groups to export"
		return
	}
	path, err := export.WriteGroupsCSV(a.cfg.ExportDir(), v.groups, time.Now())
	if err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		a.logError("Group export failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Groups exported to %s", path)
	a.logInfo("Groups exported to %s", path)
}

func (v *splitView) view(a *App, width int) string {
	modeLabel := "fixed group count"
	if v.mode == split.ModeGroupSize {
		modeLabel = "fixed group size"
	}
	aiLabel := "OFF"
	if v.useAI {
		aiLabel = "ON"
	}
	settings := fmt.Sprintf("Mode: %s    Value: %s    AI naming: %s    Theme: %s",
		modeLabel, v.value.View(), aiLabel, v.theme.View())

	sections := []string{
		titleStyle.Render("Team Split"),
		settings,
	}
	if v.pending {
		sections = append(sections, dimStyle.Render("Fetching team names..."))
	}
	sections = append(sections, v.renderGroups())
	sections = append(sections,
		dimStyle.Render("enter split · m mode · v value · g ai · t theme · n rename · c copy · e export"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *splitView) renderGroups() string {
	if len(v.groups) == 0 {
		return dimStyle.Render("No groups yet. Press enter to split the roster.")
	}
	var blocks []string
	for i, g := range v.groups {
		header := fmt.Sprintf("%s (%d)", g.Name, len(g.Members))
		if i == v.selected {
			if v.renaming {
				header = selectedStyle.Render("▸ ") + v.rename.View()
			} else {
				header = selectedStyle.Render("▸ " + header)
			}
		} else {
			header = "  " + header
		}
		lines := []string{header}
		for j, m := range g.Members {
			lines = append(lines, fmt.Sprintf("     %d. %s", j+1, m.Name))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n")
}
