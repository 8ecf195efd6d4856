package query

import "github.com/fentz26/taskboard/internal/models"

// Groups partitions indicators by type, each bucket in collection order.
type Groups struct {
	Importance []models.Indicator
	Status     []models.Indicator
	Category   []models.Indicator
}

// Of returns the bucket for typ.
func (g Groups) Of(typ models.IndicatorType) []models.Indicator {
	switch typ {
	case models.IndicatorImportance:
		return g.Importance
	case models.IndicatorStatus:
		return g.Status
	case models.IndicatorCategory:
		return g.Category
	}
	return nil
}

// Group partitions indicators by type.
func Group(indicators []models.Indicator) Groups {
	var g Groups
	for _, ind := range indicators {
		switch ind.Type {
		case models.IndicatorImportance:
			g.Importance = append(g.Importance, ind)
		case models.IndicatorStatus:
			g.Status = append(g.Status, ind)
		case models.IndicatorCategory:
			g.Category = append(g.Category, ind)
		}
	}
	return g
}

// Lookup maps task enum values to the indicators that represent them.
// Importance and status indicators bind to a value through their lowercased
// name; an indicator whose name is not an enum value binds to nothing. When
// several indicators share a value the first one wins.
type Lookup struct {
	difficulty map[models.Difficulty]models.Indicator
	status     map[models.Status]models.Indicator
	category   map[string]models.Indicator
}

// NewLookup indexes indicators.
func NewLookup(indicators []models.Indicator) Lookup {
	l := Lookup{
		difficulty: make(map[models.Difficulty]models.Indicator),
		status:     make(map[models.Status]models.Indicator),
		category:   make(map[string]models.Indicator),
	}
	for _, ind := range indicators {
		switch ind.Type {
		case models.IndicatorImportance:
			if d, ok := difficultyOf(ind); ok {
				if _, dup := l.difficulty[d]; !dup {
					l.difficulty[d] = ind
				}
			}
		case models.IndicatorStatus:
			if s, ok := statusOf(ind); ok {
				if _, dup := l.status[s]; !dup {
					l.status[s] = ind
				}
			}
		case models.IndicatorCategory:
			l.category[ind.ID] = ind
		}
	}
	return l
}

// Difficulty returns the importance indicator for d.
func (l Lookup) Difficulty(d models.Difficulty) (models.Indicator, bool) {
	ind, ok := l.difficulty[d]
	return ind, ok
}

// Status returns the status indicator for s.
func (l Lookup) Status(s models.Status) (models.Indicator, bool) {
	ind, ok := l.status[s]
	return ind, ok
}

// Category returns the category indicator with id.
func (l Lookup) Category(id string) (models.Indicator, bool) {
	ind, ok := l.category[id]
	return ind, ok
}

func difficultyOf(ind models.Indicator) (models.Difficulty, bool) {
	d := models.Difficulty(ind.Key())
	return d, d.Valid()
}

func statusOf(ind models.Indicator) (models.Status, bool) {
	s := models.Status(ind.Key())
	return s, s.Valid()
}

// Count returns the number of tasks using ind. Category indicators are
// matched by id; importance and status indicators by the enum value their
// name spells, so a renamed one counts zero.
func Count(ind models.Indicator, tasks []models.Task) int {
	var match func(models.Task) bool
	switch ind.Type {
	case models.IndicatorCategory:
		match = func(t models.Task) bool { return t.CategoryID == ind.ID }
	case models.IndicatorImportance:
		d, ok := difficultyOf(ind)
		if !ok {
			return 0
		}
		match = func(t models.Task) bool { return t.Difficulty == d }
	case models.IndicatorStatus:
		s, ok := statusOf(ind)
		if !ok {
			return 0
		}
		match = func(t models.Task) bool { return t.Status == s }
	default:
		return 0
	}

	n := 0
	for _, t := range tasks {
		if match(t) {
			n++
		}
	}
	return n
}

// Counts returns Count for every indicator keyed by indicator id.
func Counts(indicators []models.Indicator, tasks []models.Task) map[string]int {
	out := make(map[string]int, len(indicators))
	for _, ind := range indicators {
		out[ind.ID] = Count(ind, tasks)
	}
	return out
}

// Stats are the headline totals of the board.
type Stats struct {
	Total      int `json:"total" yaml:"total"`
	Completed  int `json:"completed" yaml:"completed"`
	InProgress int `json:"inProgress" yaml:"inProgress"`
	Pending    int `json:"pending" yaml:"pending"`
}

// ComputeStats totals tasks by status.
func ComputeStats(tasks []models.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			s.Completed++
		case models.StatusProgress:
			s.InProgress++
		case models.StatusPending:
			s.Pending++
		}
	}
	return s
}
