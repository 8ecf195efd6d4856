// Package tui provides the interactive terminal UI for the task board.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/tracker"
)

const (
	modeList       = "list"
	modeDetail     = "detail"
	modeIndicators = "indicators"
)

// App is the main TUI application model.
type App struct {
	tracker     *tracker.Tracker
	notices     *NoticeSink
	defaults    query.Options
	opts        query.Options
	tasks       []models.Task
	visible     []models.Task
	indicators  []models.Indicator
	selectedIdx int
	indIdx      int
	detailID    string
	input       textinput.Model
	viewport    viewport.Model
	width       int
	height      int
	mode        string
	message     string
	suggestions *Suggestions
}

// New creates a new TUI application over tr. defaults is the view restored
// by clearing filters; notices receives the tracker's persistence notices.
func New(tr *tracker.Tracker, notices *NoticeSink, defaults query.Options) *App {
	ti := textinput.New()
	ti.Placeholder = "Type: add <title> | status <s> | search <text> | / for commands"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	vp := viewport.New(80, 20)

	a := &App{
		tracker:     tr,
		notices:     notices,
		defaults:    defaults,
		opts:        defaults,
		input:       ti,
		viewport:    vp,
		mode:        modeList,
		suggestions: NewSuggestions(),
	}
	a.refresh()
	// Load runs before the UI exists; show what it reported.
	a.surfaceNotices()
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "esc":
			if a.suggestions.IsVisible() || a.input.Value() != "" {
				a.input.SetValue("")
				a.suggestions.Update("")
				return a, nil
			}
			if a.mode != modeList {
				a.mode = modeList
				a.detailID = ""
				return a, nil
			}

		case "up":
			if a.suggestions.IsVisible() {
				a.suggestions.Prev()
			} else if a.mode == modeList && a.selectedIdx > 0 {
				a.selectedIdx--
			} else if a.mode == modeIndicators && a.indIdx > 0 {
				a.indIdx--
			} else if a.mode == modeDetail {
				a.viewport.LineUp(1)
			}
			return a, nil

		case "down":
			if a.suggestions.IsVisible() {
				a.suggestions.Next()
			} else if a.mode == modeList && a.selectedIdx < len(a.visible)-1 {
				a.selectedIdx++
			} else if a.mode == modeIndicators && a.indIdx < len(a.indicators)-1 {
				a.indIdx++
			} else if a.mode == modeDetail {
				a.viewport.LineDown(1)
			}
			return a, nil

		case "pgup", "pgdown":
			if a.mode == modeDetail {
				var cmd tea.Cmd
				a.viewport, cmd = a.viewport.Update(msg)
				return a, cmd
			}

		case "tab":
			// If suggestions visible, accept selection
			if a.suggestions.IsVisible() {
				a.acceptSuggestion()
				return a, nil
			}
			// Cycle through modes: list -> indicators -> list
			if a.mode == modeIndicators {
				a.mode = modeList
			} else {
				a.mode = modeIndicators
			}
			return a, nil

		case "enter":
			if a.suggestions.IsVisible() {
				a.acceptSuggestion()
				return a, nil
			}
			line := strings.TrimSpace(a.input.Value())
			if line != "" {
				a.input.SetValue("")
				a.suggestions.Update("")
				return a, a.executeCommand(line)
			}
			if a.mode == modeList && len(a.visible) > 0 {
				a.openDetail(a.visible[a.selectedIdx].ID)
			}
			return a, nil

		case "ctrl+f":
			a.opts.Filters.Status = cycle(a.opts.Filters.Status, statusChoices())
			a.refresh()
			return a, nil

		case "ctrl+d":
			a.opts.Filters.Difficulty = cycle(a.opts.Filters.Difficulty, difficultyChoices())
			a.refresh()
			return a, nil

		case "ctrl+g":
			a.opts.Filters.Category = cycle(a.opts.Filters.Category, a.categoryChoices())
			a.refresh()
			return a, nil

		case "ctrl+s":
			next := cycle(string(a.opts.SortBy), []string{string(query.SortCreated), string(query.SortUpdated), string(query.SortTitle)})
			a.opts.SortBy = query.SortKey(next)
			a.refresh()
			return a, nil

		case "ctrl+o":
			if a.opts.Order == query.Desc {
				a.opts.Order = query.Asc
			} else {
				a.opts.Order = query.Desc
			}
			a.refresh()
			return a, nil

		case "ctrl+r":
			a.opts = a.defaults
			a.message = "✓ Filters cleared"
			a.refresh()
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-10, 5)
		a.renderDetailContent()

	case commandResultMsg:
		a.message = msg.message
		a.refresh()
		a.surfaceNotices()
		if msg.quit {
			return a, tea.Quit
		}
		return a, nil
	}

	// Update input
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	// Update suggestions based on input
	a.suggestions.Update(a.input.Value())

	return a, tea.Batch(cmds...)
}

func (a *App) acceptSuggestion() {
	if selected := a.suggestions.Selected(); selected != nil {
		a.input.SetValue(selected.Insert)
		a.input.CursorEnd()
		a.suggestions.Update("")
	}
}

func (a *App) openDetail(id string) {
	a.mode = modeDetail
	a.detailID = id
	a.renderDetailContent()
	a.viewport.GotoTop()
}

// refresh reloads the collections from the tracker and recomputes the view.
func (a *App) refresh() {
	a.tasks = a.tracker.Tasks()
	// Indicators are kept in board order: grouped by type, then collection
	// order, so navigation follows the rendered rows.
	g := query.Group(a.tracker.Indicators())
	a.indicators = append(append(append([]models.Indicator{}, g.Importance...), g.Status...), g.Category...)
	a.visible = query.View(a.tasks, a.opts)

	if a.selectedIdx >= len(a.visible) {
		a.selectedIdx = max(0, len(a.visible)-1)
	}
	if a.indIdx >= len(a.indicators) {
		a.indIdx = max(0, len(a.indicators)-1)
	}

	var ids, names []string
	for _, ind := range g.Category {
		ids = append(ids, ind.ID)
		names = append(names, ind.Name)
	}
	a.suggestions.SetCategories(ids, names)

	if a.mode == modeDetail {
		if _, err := a.tracker.Task(a.detailID); err != nil {
			a.mode = modeList
			a.detailID = ""
		} else {
			a.renderDetailContent()
		}
	}
}

// surfaceNotices moves pending tracker notices into the message bar.
func (a *App) surfaceNotices() {
	if a.notices == nil {
		return
	}
	for _, n := range a.notices.Drain() {
		prefix := "Error: "
		if n.Level == tracker.LevelWarning {
			prefix = "Warning: "
		}
		a.message = prefix + n.String()
	}
}

// selectedTask returns the task a command applies to: the open task in
// detail mode, otherwise the highlighted row.
func (a *App) selectedTask() (models.Task, bool) {
	if a.mode == modeDetail && a.detailID != "" {
		t, err := a.tracker.Task(a.detailID)
		return t, err == nil
	}
	if a.mode == modeList && len(a.visible) > 0 {
		return a.visible[a.selectedIdx], true
	}
	return models.Task{}, false
}

func (a *App) categoryChoices() []string {
	choices := []string{query.All, query.NoCategory}
	for _, ind := range query.Group(a.indicators).Category {
		choices = append(choices, ind.ID)
	}
	return choices
}

func statusChoices() []string {
	choices := []string{query.All}
	for _, s := range models.Statuses() {
		choices = append(choices, string(s))
	}
	return choices
}

func difficultyChoices() []string {
	choices := []string{query.All}
	for _, d := range models.Difficulties() {
		choices = append(choices, string(d))
	}
	return choices
}

// cycle returns the choice after current, wrapping around. An unknown or
// empty current value starts from the first choice.
func cycle(current string, choices []string) string {
	if current == "" {
		current = query.All
	}
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

func (a *App) statusLine() string {
	switch a.mode {
	case modeList:
		return fmt.Sprintf(" Showing %d of %d | ↑↓:nav | Enter:open | Tab:indicators | ^F status ^D difficulty ^G category ^S sort ^O order ^R reset | ^C:quit",
			len(a.visible), len(a.tasks))
	case modeIndicators:
		return fmt.Sprintf(" Indicators: %d | ↑↓:nav | rm:delete | Tab:tasks | Esc:back", len(a.indicators))
	default:
		return " ↑↓/PgUp/PgDn:scroll | Esc:back | title/desc/status/difficulty/category/rm | ^C:quit"
	}
}

type commandResultMsg struct {
	message string
	quit    bool
}
