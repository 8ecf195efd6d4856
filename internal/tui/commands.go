package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/tracker"
)

func (a *App) executeCommand(input string) tea.Cmd {
	msg := a.runCommand(input)
	return func() tea.Msg { return msg }
}

// runCommand applies one command bar line. View state changes happen
// immediately; tracker mutations are synchronous.
func (a *App) runCommand(input string) commandResultMsg {
	input = strings.TrimPrefix(strings.TrimSpace(input), "/")
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return commandResultMsg{}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch cmd {
	case "add":
		if rest == "" {
			return commandResultMsg{message: "Usage: add <title>"}
		}
		task, err := a.tracker.CreateTask(tracker.TaskInput{Title: rest})
		if err != nil {
			return errResult(err)
		}
		return commandResultMsg{message: fmt.Sprintf("✓ Created task: %s", shortID(task.ID))}

	case "title":
		if rest == "" {
			return commandResultMsg{message: "Usage: title <new title>"}
		}
		return a.editSelected("Title updated", func(in *tracker.TaskInput) error {
			in.Title = rest
			return nil
		})

	case "desc", "description":
		return a.editSelected("Description updated", func(in *tracker.TaskInput) error {
			in.Description = rest
			return nil
		})

	case "status":
		if len(args) != 1 {
			return commandResultMsg{message: "Usage: status start|pending|progress|failed|completed"}
		}
		return a.editSelected("Status updated", func(in *tracker.TaskInput) error {
			s, err := models.ParseStatus(args[0])
			in.Status = s
			return err
		})

	case "difficulty":
		if len(args) != 1 {
			return commandResultMsg{message: "Usage: difficulty slow|medium|hard"}
		}
		return a.editSelected("Difficulty updated", func(in *tracker.TaskInput) error {
			d, err := models.ParseDifficulty(args[0])
			in.Difficulty = d
			return err
		})

	case "category":
		if len(args) != 1 {
			return commandResultMsg{message: "Usage: category <indicator id>|none"}
		}
		return a.editSelected("Category updated", func(in *tracker.TaskInput) error {
			if strings.EqualFold(args[0], "none") {
				in.CategoryID = ""
			} else {
				in.CategoryID = args[0]
			}
			return nil
		})

	case "rm", "delete":
		return a.deleteSelected()

	case "indicator":
		return a.createIndicator(args)

	case "search":
		a.opts.Filters.Search = rest
		if rest == "" {
			return commandResultMsg{message: "✓ Search cleared"}
		}
		return commandResultMsg{message: fmt.Sprintf("✓ Searching for %q", rest)}

	case "filter":
		return a.setFilter(args)

	case "clear":
		a.opts = a.defaults
		return commandResultMsg{message: "✓ Filters cleared"}

	case "sort":
		if len(args) != 1 {
			return commandResultMsg{message: "Usage: sort created|updated|title"}
		}
		key, ok := query.ParseSortKey(args[0])
		if !ok {
			return commandResultMsg{message: fmt.Sprintf("Error: unknown sort key %q", args[0])}
		}
		a.opts.SortBy = key
		return commandResultMsg{message: fmt.Sprintf("✓ Sorted by %s", key)}

	case "order":
		if len(args) != 1 {
			return commandResultMsg{message: "Usage: order asc|desc"}
		}
		order, ok := query.ParseOrder(args[0])
		if !ok {
			return commandResultMsg{message: fmt.Sprintf("Error: unknown order %q", args[0])}
		}
		a.opts.Order = order
		return commandResultMsg{message: fmt.Sprintf("✓ Order %s", order)}

	case "q", "quit", "exit":
		return commandResultMsg{quit: true}

	default:
		return commandResultMsg{message: fmt.Sprintf("Unknown: %s (try: add, status, search, indicator, / for all)", cmd)}
	}
}

// editSelected applies edit to the selected task's current input and saves.
func (a *App) editSelected(done string, edit func(*tracker.TaskInput) error) commandResultMsg {
	task, ok := a.selectedTask()
	if !ok {
		return commandResultMsg{message: "No task selected"}
	}
	in := tracker.InputFrom(task)
	if err := edit(&in); err != nil {
		return errResult(err)
	}
	if _, err := a.tracker.UpdateTask(task.ID, in); err != nil {
		return errResult(err)
	}
	return commandResultMsg{message: "✓ " + done}
}

func (a *App) deleteSelected() commandResultMsg {
	if a.mode == modeIndicators {
		if len(a.indicators) == 0 {
			return commandResultMsg{message: "No indicator selected"}
		}
		ind := a.indicators[a.indIdx]
		cleared, err := a.tracker.DeleteIndicator(ind.ID)
		if err != nil {
			return errResult(err)
		}
		if cleared > 0 {
			return commandResultMsg{message: fmt.Sprintf("✓ Deleted %s, cleared from %d tasks", ind.Name, cleared)}
		}
		return commandResultMsg{message: fmt.Sprintf("✓ Deleted %s", ind.Name)}
	}

	task, ok := a.selectedTask()
	if !ok {
		return commandResultMsg{message: "No task selected"}
	}
	if err := a.tracker.DeleteTask(task.ID); err != nil {
		return errResult(err)
	}
	if a.mode == modeDetail {
		a.mode = modeList
		a.detailID = ""
	}
	return commandResultMsg{message: fmt.Sprintf("✓ Deleted task: %s", task.Title)}
}

// createIndicator parses "indicator <name words> [type=t] [color=c]".
func (a *App) createIndicator(args []string) commandResultMsg {
	var in tracker.IndicatorInput
	var name []string
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		switch {
		case found && strings.EqualFold(key, "type"):
			t, err := models.ParseIndicatorType(value)
			if err != nil {
				return errResult(err)
			}
			in.Type = t
		case found && strings.EqualFold(key, "color"):
			c, err := models.ParseColor(value)
			if err != nil {
				return errResult(err)
			}
			in.Color = c
		default:
			name = append(name, arg)
		}
	}
	in.Name = strings.Join(name, " ")
	if in.Name == "" {
		return commandResultMsg{message: "Usage: indicator <name> [type=importance|status|category] [color=Green]"}
	}

	ind, err := a.tracker.CreateIndicator(in)
	if err != nil {
		return errResult(err)
	}
	return commandResultMsg{message: fmt.Sprintf("✓ Created %s indicator: %s (%s)", ind.Type, ind.Name, ind.ID)}
}

func (a *App) setFilter(args []string) commandResultMsg {
	if len(args) != 2 {
		return commandResultMsg{message: "Usage: filter status|difficulty|category <value|all>"}
	}
	dim, value := strings.ToLower(args[0]), args[1]
	if strings.EqualFold(value, query.All) {
		value = query.All
	}

	switch dim {
	case "status":
		if value != query.All {
			s, err := models.ParseStatus(value)
			if err != nil {
				return errResult(err)
			}
			value = string(s)
		}
		a.opts.Filters.Status = value
	case "difficulty":
		if value != query.All {
			d, err := models.ParseDifficulty(value)
			if err != nil {
				return errResult(err)
			}
			value = string(d)
		}
		a.opts.Filters.Difficulty = value
	case "category":
		a.opts.Filters.Category = value
	default:
		return commandResultMsg{message: fmt.Sprintf("Error: unknown filter %q", dim)}
	}
	return commandResultMsg{message: fmt.Sprintf("✓ %s = %s (%d active)", dim, value, a.opts.Filters.ActiveFilters())}
}

func errResult(err error) commandResultMsg {
	switch {
	case errors.Is(err, tracker.ErrBlankTitle):
		return commandResultMsg{message: "Error: title is required"}
	case errors.Is(err, tracker.ErrBlankName):
		return commandResultMsg{message: "Error: name is required"}
	}
	return commandResultMsg{message: "Error: " + err.Error()}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
