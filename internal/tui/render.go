package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
)

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	stats := query.ComputeStats(a.tasks)
	header := titleStyle.Render("TASKBOARD")
	header += "  " + mutedStyle.Render(fmt.Sprintf("%d total", stats.Total))
	header += "  " + lipgloss.NewStyle().Foreground(successColor).Render(fmt.Sprintf("● %d done", stats.Completed))
	header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(fmt.Sprintf("◑ %d in progress", stats.InProgress))
	header += "  " + lipgloss.NewStyle().Foreground(warningColor).Render(fmt.Sprintf("○ %d pending", stats.Pending))

	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 1)) + "\n")

	// Main content area
	contentHeight := max(a.height-8, 5)

	switch a.mode {
	case modeList:
		b.WriteString(a.renderFilterLine() + "\n")
		b.WriteString(a.renderTaskList(contentHeight - 1))
	case modeDetail:
		b.WriteString(a.viewport.View())
	case modeIndicators:
		b.WriteString(a.renderIndicators(contentHeight))
	}

	// Message bar
	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		switch {
		case strings.HasPrefix(a.message, "Error"):
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		case strings.HasPrefix(a.message, "Warning"):
			msgStyle = lipgloss.NewStyle().Foreground(warningColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	// Input box
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))

	// Suggestions dropdown renders below the input.
	if a.suggestions.IsVisible() {
		b.WriteString("\n")
		b.WriteString(a.suggestions.Render(a.width))
	}
	b.WriteString("\n")

	b.WriteString(statusBarStyle.Width(a.width).Render(a.statusLine()))

	return b.String()
}

func (a *App) renderFilterLine() string {
	f := a.opts.Filters
	parts := []string{
		fmt.Sprintf("Status: [%s]", strings.ToUpper(orAll(f.Status))),
		fmt.Sprintf("Difficulty: [%s]", strings.ToUpper(orAll(f.Difficulty))),
		fmt.Sprintf("Category: [%s]", strings.ToUpper(a.categoryLabel(f.Category))),
		fmt.Sprintf("Sort: %s %s", a.opts.SortBy, a.opts.Order),
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", f.Search))
	}
	line := " " + strings.Join(parts, "  ")
	if n := f.ActiveFilters(); n > 0 {
		plural := ""
		if n > 1 {
			plural = "s"
		}
		line += fmt.Sprintf("  (%d filter%s active, ^R to clear)", n, plural)
	}
	return mutedStyle.Render(line)
}

func orAll(v string) string {
	if v == "" {
		return query.All
	}
	return v
}

func (a *App) categoryLabel(v string) string {
	switch v {
	case "", query.All:
		return query.All
	case query.NoCategory:
		return "none"
	}
	if ind, ok := query.NewLookup(a.indicators).Category(v); ok {
		return ind.Name
	}
	return v
}

func (a *App) renderTaskList(height int) string {
	if len(a.tasks) == 0 {
		return "\n  No tasks yet. Type: add <title> to create one.\n"
	}
	if len(a.visible) == 0 {
		return "\n  No tasks match the current filters. Type: clear\n"
	}

	lookup := query.NewLookup(a.indicators)
	var lines []string
	for i, task := range a.visible {
		cat := ""
		if ind, ok := lookup.Category(task.CategoryID); ok {
			cat = "  " + badge(ind, "#"+ind.Name)
		}

		if i == a.selectedIdx {
			line := selectedStyle.Render(fmt.Sprintf("▶ %s  %s  %s", statusSymbol(task.Status), task.Title, task.Difficulty))
			lines = append(lines, line+cat)
		} else {
			line := taskItemStyle.Render(fmt.Sprintf("  %s  %s  %s",
				formatStatus(lookup, task.Status), task.Title, formatDifficulty(lookup, task.Difficulty)))
			lines = append(lines, line+cat)
		}
	}

	// Limit visible lines
	if len(lines) > height {
		start := max(a.selectedIdx-height/2, 0)
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

// renderDetailContent loads the open task into the viewport.
func (a *App) renderDetailContent() {
	if a.detailID == "" {
		return
	}
	t, err := a.tracker.Task(a.detailID)
	if err != nil {
		a.viewport.SetContent("\n  Task not found.\n")
		return
	}
	lookup := query.NewLookup(a.indicators)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  %s\n", lipgloss.NewStyle().Bold(true).Render(t.Title)))
	field := func(label, value string) {
		b.WriteString("  " + labelStyle.Render(label) + value + "\n")
	}
	field("ID", t.ID)
	field("Status", formatStatus(lookup, t.Status))
	field("Difficulty", formatDifficulty(lookup, t.Difficulty))
	if ind, ok := lookup.Category(t.CategoryID); ok {
		field("Category", badge(ind, ind.Name))
	} else if t.HasCategory() {
		field("Category", mutedStyle.Render(t.CategoryID+" (missing)"))
	}
	if t.Description != "" {
		field("Description", t.Description)
	}
	field("Created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	field("Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		field("Completed", t.CompletedAt.Local().Format("2006-01-02 15:04"))
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("  History (%d)", len(t.History))) + "\n")
	for _, e := range query.HistoryNewestFirst(t.History) {
		b.WriteString(fmt.Sprintf("    %s  %s\n",
			mutedStyle.Render(e.Timestamp.Local().Format("Jan 02 15:04")),
			e.Describe()))
	}

	a.viewport.SetContent(b.String())
}

func (a *App) renderIndicators(height int) string {
	var b strings.Builder
	groups := query.Group(a.indicators)
	counts := query.Counts(a.indicators, a.tasks)

	lines := 0
	for _, typ := range models.IndicatorTypes() {
		group := groups.Of(typ)
		b.WriteString(sectionStyle.Render(fmt.Sprintf("  %s (%d)", strings.ToUpper(string(typ)), len(group))) + "\n")
		lines += 2
		if len(group) == 0 {
			b.WriteString(helpStyle.Render("    none") + "\n")
			lines++
		}
		for _, ind := range group {
			text := fmt.Sprintf("%-16s %-10s %d tasks", ind.Name, ind.Color, counts[ind.ID])
			if a.rowOf(ind.ID) == a.indIdx {
				b.WriteString(selectedStyle.Render("▶ ● "+text) + "\n")
			} else {
				b.WriteString("    " + badge(ind, "●") + " " + text + "\n")
			}
			lines++
			if lines >= height {
				return b.String()
			}
		}
	}

	b.WriteString("\n  " + helpStyle.Render("Commands: indicator <name> [type=t] [color=c] | rm") + "\n")
	return b.String()
}

// rowOf returns the navigation position of indicator id.
func (a *App) rowOf(id string) int {
	for i, ind := range a.indicators {
		if ind.ID == id {
			return i
		}
	}
	return -1
}

func formatStatus(lookup query.Lookup, status models.Status) string {
	label := statusSymbol(status) + " " + strings.ToUpper(string(status))
	if ind, ok := lookup.Status(status); ok {
		return badge(ind, label)
	}
	return label
}

func formatDifficulty(lookup query.Lookup, d models.Difficulty) string {
	if ind, ok := lookup.Difficulty(d); ok {
		return badge(ind, string(d))
	}
	return string(d)
}

func statusSymbol(status models.Status) string {
	switch status {
	case models.StatusStart:
		return "○"
	case models.StatusPending:
		return "◐"
	case models.StatusProgress:
		return "◑"
	case models.StatusCompleted:
		return "●"
	case models.StatusFailed:
		return "✗"
	default:
		return "?"
	}
}
