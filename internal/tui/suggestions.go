package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Suggestions provides autocomplete for the command bar. "/" lists
// commands, "@" lists category indicators and "!" lists status values.
type Suggestions struct {
	items        []SuggestionItem
	filtered     []SuggestionItem
	selectedIdx  int
	visible      bool
	prefix       string
	currentInput string
	categories   []SuggestionItem
}

// SuggestionItem represents a single autocomplete suggestion
type SuggestionItem struct {
	Text        string
	Description string
	// Insert replaces the command bar content when the item is accepted.
	Insert string
}

var commandSuggestions = []SuggestionItem{
	{Text: "add", Description: "Create a new task", Insert: "add "},
	{Text: "title", Description: "Rename the selected task", Insert: "title "},
	{Text: "desc", Description: "Set or clear the description", Insert: "desc "},
	{Text: "status", Description: "Set status of the selected task", Insert: "status "},
	{Text: "difficulty", Description: "Set difficulty of the selected task", Insert: "difficulty "},
	{Text: "category", Description: "Assign a category id, or none", Insert: "category "},
	{Text: "rm", Description: "Delete the selected task or indicator", Insert: "rm"},
	{Text: "indicator", Description: "Create: indicator <name> [type=t] [color=c]", Insert: "indicator "},
	{Text: "search", Description: "Filter by text in title or description", Insert: "search "},
	{Text: "filter", Description: "filter status|difficulty|category <value>", Insert: "filter "},
	{Text: "clear", Description: "Clear filters and restore default sort", Insert: "clear"},
	{Text: "sort", Description: "Sort by created, updated or title", Insert: "sort "},
	{Text: "order", Description: "Sort asc or desc", Insert: "order "},
	{Text: "quit", Description: "Exit", Insert: "quit"},
}

var statusSuggestions = []SuggestionItem{
	{Text: "start", Description: "Not started", Insert: "status start"},
	{Text: "pending", Description: "Waiting", Insert: "status pending"},
	{Text: "progress", Description: "In progress", Insert: "status progress"},
	{Text: "failed", Description: "Failed", Insert: "status failed"},
	{Text: "completed", Description: "Done", Insert: "status completed"},
}

// NewSuggestions creates a new suggestions handler
func NewSuggestions() *Suggestions {
	return &Suggestions{
		items:   commandSuggestions,
		visible: false,
	}
}

// SetCategories replaces the category references offered after "@".
func (s *Suggestions) SetCategories(ids, names []string) {
	s.categories = make([]SuggestionItem, len(ids))
	for i, id := range ids {
		s.categories[i] = SuggestionItem{
			Text:        names[i],
			Description: id,
			Insert:      "category " + id,
		}
	}
	if s.prefix == "@" {
		s.Update(s.currentInput)
	}
}

// Update updates suggestions based on current input
func (s *Suggestions) Update(input string) {
	s.currentInput = input
	if input == "" {
		s.visible = false
		s.filtered = nil
		s.prefix = ""
		return
	}

	// Check for trigger characters
	switch input[0] {
	case '/':
		s.prefix = "/"
		s.items = commandSuggestions
	case '@':
		s.prefix = "@"
		s.items = s.categories
	case '!':
		s.prefix = "!"
		s.items = statusSuggestions
	default:
		s.visible = false
		s.filtered = nil
		s.prefix = ""
		return
	}

	s.visible = true
	s.filter(strings.ToLower(input[1:]))
}

func (s *Suggestions) filter(query string) {
	if query == "" {
		s.filtered = s.items
		s.selectedIdx = 0
		return
	}

	s.filtered = []SuggestionItem{}
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Text), query) {
			s.filtered = append(s.filtered, item)
		}
	}
	s.selectedIdx = 0
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.visible || len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	suggestionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Width(max(width-4, 20))

	highlight := lipgloss.NewStyle().
		Background(primaryColor).
		Foreground(fgColor).
		Bold(true)

	itemStyle := lipgloss.NewStyle().Foreground(fgColor)
	descStyle := helpStyle

	var header string
	switch s.prefix {
	case "/":
		header = "Commands"
	case "@":
		header = "Categories"
	case "!":
		header = "Status"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(header))
	b.WriteString("\n")

	// Show max 5 suggestions
	maxVisible := 5
	for i, item := range s.filtered {
		if i >= maxVisible {
			more := len(s.filtered) - maxVisible
			b.WriteString(descStyle.Render(fmt.Sprintf("  ... and %d more", more)))
			break
		}

		var line string
		if i == s.selectedIdx {
			line = highlight.Render("▶ " + item.Text)
			if item.Description != "" {
				line += " " + highlight.Render(item.Description)
			}
		} else {
			line = itemStyle.Render("  " + item.Text)
			if item.Description != "" {
				line += " " + descStyle.Render(item.Description)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return suggestionStyle.Render(b.String())
}
