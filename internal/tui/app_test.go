package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/store"
	"github.com/fentz26/taskboard/internal/tracker"
)

type failingKV struct{ *store.Memory }

func (failingKV) Set(string, string) error { return errors.New("quota exceeded") }

func newTestApp(t *testing.T) *App {
	t.Helper()
	sink := &NoticeSink{}
	tr := tracker.New(store.NewMemory(), tracker.Options{Notifier: sink})
	tr.Load()
	return New(tr, sink, query.DefaultOptions())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes a command line and feeds the result back into the model.
func run(a *App, line string) {
	a.Update(a.runCommand(line))
}

func TestNewShowsSeededBoard(t *testing.T) {
	a := newTestApp(t)

	assert.Len(t, a.tasks, 3)
	assert.Len(t, a.visible, 3)
	assert.Len(t, a.indicators, 8)
	// Default view is newest first.
	assert.Equal(t, "3", a.visible[0].ID)

	view := a.View()
	assert.Contains(t, view, "TASKBOARD")
	assert.Contains(t, view, "Review team feedback")
	assert.Contains(t, view, "Showing 3 of 3")
}

func TestAddAndEditSelectedTask(t *testing.T) {
	a := newTestApp(t)

	run(a, "add Write proposal")
	assert.Contains(t, a.message, "Created task")
	require.Len(t, a.tasks, 4)
	assert.Equal(t, "Write proposal", a.visible[0].Title)

	a.selectedIdx = 0
	run(a, "/status progress")
	assert.Equal(t, "✓ Status updated", a.message)
	task, err := a.tracker.Task(a.visible[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProgress, task.Status)
	require.Len(t, task.History, 2)
	assert.Equal(t, models.ActionStatusChanged, task.History[1].Action())

	run(a, "difficulty HARD")
	run(a, "desc  Draft the first version ")
	task, _ = a.tracker.Task(task.ID)
	assert.Equal(t, models.DifficultyHard, task.Difficulty)
	assert.Equal(t, "Draft the first version", task.Description)

	run(a, "status done")
	assert.True(t, strings.HasPrefix(a.message, "Error"), a.message)
}

func TestAddRequiresTitle(t *testing.T) {
	a := newTestApp(t)
	run(a, "add")
	assert.Equal(t, "Usage: add <title>", a.message)
	assert.Len(t, a.tasks, 3)
}

func TestCategoryLifecycle(t *testing.T) {
	a := newTestApp(t)

	run(a, "indicator Launch prep color=peach")
	require.Len(t, a.indicators, 9)
	cat := a.indicators[8]
	assert.Equal(t, "Launch prep", cat.Name)
	assert.Equal(t, models.IndicatorCategory, cat.Type)
	assert.Equal(t, models.Color("Peach"), cat.Color)

	a.selectedIdx = 0
	run(a, "category "+cat.ID)
	assert.Equal(t, "✓ Category updated", a.message)

	run(a, "filter category "+cat.ID)
	require.Len(t, a.visible, 1)
	taskID := a.visible[0].ID

	// Delete the indicator from the board.
	a.Update(key("tab"))
	require.Equal(t, modeIndicators, a.mode)
	a.indIdx = 8
	run(a, "rm")
	assert.Contains(t, a.message, "cleared from 1 tasks")

	task, err := a.tracker.Task(taskID)
	require.NoError(t, err)
	assert.False(t, task.HasCategory())
	assert.Empty(t, query.Group(a.indicators).Category)
}

func TestUnknownCategoryRejected(t *testing.T) {
	a := newTestApp(t)
	run(a, "category nope")
	assert.True(t, strings.HasPrefix(a.message, "Error"), a.message)
}

func TestSearchFilterAndClear(t *testing.T) {
	a := newTestApp(t)

	run(a, "search pipeline")
	require.Len(t, a.visible, 1)
	assert.Equal(t, "2", a.visible[0].ID)

	run(a, "sort title")
	run(a, "order asc")
	assert.Equal(t, query.SortTitle, a.opts.SortBy)
	assert.Equal(t, 1, a.opts.Filters.ActiveFilters())

	run(a, "clear")
	assert.Equal(t, query.DefaultOptions(), a.opts)
	assert.Len(t, a.visible, 3)
}

func TestCtrlKeysCycleFilters(t *testing.T) {
	a := newTestApp(t)

	a.Update(key("ctrl+f"))
	assert.Equal(t, "start", a.opts.Filters.Status)
	assert.Empty(t, a.visible)

	a.Update(key("ctrl+f"))
	assert.Equal(t, "pending", a.opts.Filters.Status)
	require.Len(t, a.visible, 1)

	a.Update(key("ctrl+r"))
	assert.Equal(t, query.All, a.opts.Filters.Status)
	assert.Len(t, a.visible, 3)
}

func TestEnterOpensDetailWithHistory(t *testing.T) {
	a := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	// Row 1 in the default view is the landing page task.
	a.Update(key("down"))
	a.Update(key("enter"))
	require.Equal(t, modeDetail, a.mode)
	require.Equal(t, "1", a.detailID)

	view := a.viewport.View()
	assert.Contains(t, view, "Design new landing page")
	assert.Contains(t, view, "History (2)")
	// Newest first.
	assert.Less(t, strings.Index(view, "Status changed"), strings.Index(view, "Task was created"))

	run(a, "rm")
	assert.Equal(t, modeList, a.mode)
	assert.Len(t, a.tasks, 2)

	a.Update(key("esc"))
	assert.Equal(t, modeList, a.mode)
}

func TestPersistenceFailureShownInMessageBar(t *testing.T) {
	sink := &NoticeSink{}
	tr := tracker.New(failingKV{store.NewMemory()}, tracker.Options{Notifier: sink})
	tr.Load()
	a := New(tr, sink, query.DefaultOptions())
	// Seeding could not be saved either, which is shown at startup.
	assert.True(t, strings.HasPrefix(a.message, "Error: changes could not be saved"), a.message)
	a.message = ""

	run(a, "add offline task")
	assert.True(t, strings.HasPrefix(a.message, "Error: changes could not be saved"), a.message)
	// The task still exists in memory.
	assert.Len(t, a.tasks, 4)
}

func TestLoadWarningShownAtStartup(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Set(tracker.TasksKey, "{broken"))
	sink := &NoticeSink{}
	tr := tracker.New(kv, tracker.Options{Notifier: sink})
	tr.Load()

	a := New(tr, sink, query.DefaultOptions())
	assert.True(t, strings.HasPrefix(a.message, "Warning: saved data was unreadable"), a.message)
	assert.Empty(t, sink.Drain())
	assert.Len(t, a.tasks, 3)
	assert.Contains(t, a.View(), "Warning: saved data was unreadable")
}

func TestSuggestions(t *testing.T) {
	s := NewSuggestions()

	s.Update("/st")
	require.True(t, s.IsVisible())
	assert.Equal(t, "status", s.Selected().Text)

	s.Update("!comp")
	require.True(t, s.IsVisible())
	assert.Equal(t, "status completed", s.Selected().Insert)

	s.Update("@")
	assert.False(t, s.IsVisible(), "no categories yet")
	s.SetCategories([]string{"c1", "c2"}, []string{"Launch", "Ops"})
	require.True(t, s.IsVisible())
	s.Next()
	assert.Equal(t, "category c2", s.Selected().Insert)
	s.Next()
	assert.Equal(t, "category c1", s.Selected().Insert)
	s.Prev()
	assert.Equal(t, "category c2", s.Selected().Insert)

	s.Update("add")
	assert.False(t, s.IsVisible())
	assert.Nil(t, s.Selected())
}

func TestAcceptSuggestionFillsInput(t *testing.T) {
	a := newTestApp(t)
	a.input.SetValue("/ad")
	a.suggestions.Update(a.input.Value())

	a.Update(key("tab"))
	assert.Equal(t, "add ", a.input.Value())
	assert.Equal(t, modeList, a.mode)
}

func TestCycle(t *testing.T) {
	choices := []string{"all", "a", "b"}
	assert.Equal(t, "a", cycle("", choices))
	assert.Equal(t, "b", cycle("a", choices))
	assert.Equal(t, "all", cycle("b", choices))
	assert.Equal(t, "all", cycle("gone", choices))
}
