// Package query derives filtered, sorted and grouped views of the task
// board. Every function is pure: inputs are never modified.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fentz26/taskboard/internal/models"
)

// Filter sentinels. An empty filter value is treated as All.
const (
	All        = "all"
	NoCategory = "no-category"
)

// Filters is the active filter set of a view.
type Filters struct {
	Search     string
	Status     string
	Difficulty string
	Category   string
}

// SortKey selects the field a view is ordered by.
type SortKey string

const (
	SortCreated SortKey = "created"
	SortUpdated SortKey = "updated"
	SortTitle   SortKey = "title"
)

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortCreated, SortUpdated, SortTitle:
		return k, true
	}
	return "", false
}

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, bool) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, true
	}
	return "", false
}

// Options fully describes a task view.
type Options struct {
	Filters Filters
	SortBy  SortKey
	Order   Order
}

// DefaultOptions is the unfiltered view, newest first. Clearing filters
// returns to it.
func DefaultOptions() Options {
	return Options{
		Filters: Filters{Status: All, Difficulty: All, Category: All},
		SortBy:  SortCreated,
		Order:   Desc,
	}
}

// ActiveFilters counts the filter dimensions that narrow the view.
func (f Filters) ActiveFilters() int {
	n := 0
	if f.Search != "" {
		n++
	}
	for _, v := range []string{f.Status, f.Difficulty, f.Category} {
		if !isAll(v) {
			n++
		}
	}
	return n
}

// Match reports whether task passes every filter.
func (f Filters) Match(task models.Task) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(task.Title), q) &&
			!(task.Description != "" && strings.Contains(strings.ToLower(task.Description), q)) {
			return false
		}
	}
	if !isAll(f.Status) && f.Status != string(task.Status) {
		return false
	}
	if !isAll(f.Difficulty) && f.Difficulty != string(task.Difficulty) {
		return false
	}
	switch {
	case isAll(f.Category):
	case f.Category == NoCategory:
		if task.HasCategory() {
			return false
		}
	default:
		if f.Category != task.CategoryID {
			return false
		}
	}
	return true
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Filter returns the tasks matching f in their original order.
func Filter(tasks []models.Task, f Filters) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a stably sorted copy of tasks. Titles are compared with
// English collation. Ties keep their input order in both directions.
func Sort(tasks []models.Task, by SortKey, order Order) []models.Task {
	out := append([]models.Task(nil), tasks...)

	var cmp func(a, b models.Task) int
	switch by {
	case SortTitle:
		col := collate.New(language.English)
		cmp = func(a, b models.Task) int { return col.CompareString(a.Title, b.Title) }
	case SortUpdated:
		cmp = func(a, b models.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		cmp = func(a, b models.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	if order == Desc {
		asc := cmp
		cmp = func(a, b models.Task) int { return -asc(a, b) }
	}

	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	return out
}

// View filters then sorts the full collection. Each call starts from tasks
// as given, so a view depends only on its options.
func View(tasks []models.Task, o Options) []models.Task {
	return Sort(Filter(tasks, o.Filters), o.SortBy, o.Order)
}

// HistoryNewestFirst returns a reversed copy of a task's history.
func HistoryNewestFirst(history []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(history))
	for i, e := range history {
		out[len(history)-1-i] = e
	}
	return out
}
