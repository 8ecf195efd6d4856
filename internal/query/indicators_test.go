package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/taskboard/internal/catalog"
	"github.com/fentz26/taskboard/internal/models"
)

func TestGroup(t *testing.T) {
	indicators := append(catalog.DefaultIndicators(base), models.Indicator{
		ID: "cat-launch", Name: "Launch", Color: models.ColorBlue, Type: models.IndicatorCategory, CreatedAt: base,
	})

	g := Group(indicators)
	assert.Len(t, g.Importance, 3)
	assert.Len(t, g.Status, 5)
	require.Len(t, g.Category, 1)
	assert.Equal(t, "cat-launch", g.Category[0].ID)
	assert.Equal(t, g.Status, g.Of(models.IndicatorStatus))

	// After deletion the category bucket is empty.
	assert.Empty(t, Group(indicators[:8]).Category)
}

func TestCountsAgainstSamples(t *testing.T) {
	indicators := catalog.DefaultIndicators(base)
	tasks := catalog.SampleTasks()

	counts := Counts(indicators, tasks)
	assert.Equal(t, map[string]int{
		"imp-slow":         1,
		"imp-medium":       1,
		"imp-hard":         1,
		"status-start":     0,
		"status-pending":   1,
		"status-progress":  1,
		"status-failed":    0,
		"status-completed": 1,
	}, counts)
}

func TestCountCategoryAndRenamed(t *testing.T) {
	tasks := fixture()

	docs := models.Indicator{ID: "cat-docs", Name: "Docs", Type: models.IndicatorCategory}
	assert.Equal(t, 1, Count(docs, tasks))

	// Name matching is case-insensitive.
	upper := models.Indicator{ID: "x", Name: "MEDIUM", Type: models.IndicatorImportance}
	assert.Equal(t, 2, Count(upper, tasks))

	// A renamed importance indicator no longer binds to an enum value.
	renamed := models.Indicator{ID: "y", Name: "Urgent", Type: models.IndicatorImportance}
	assert.Zero(t, Count(renamed, tasks))

	// A status indicator does not match difficulties with the same spelling.
	wrongType := models.Indicator{ID: "z", Name: "medium", Type: models.IndicatorStatus}
	assert.Zero(t, Count(wrongType, tasks))
}

func TestLookup(t *testing.T) {
	indicators := catalog.DefaultIndicators(base)
	indicators = append(indicators,
		models.Indicator{ID: "dup", Name: "Hard", Color: models.ColorBlue, Type: models.IndicatorImportance},
		models.Indicator{ID: "cat", Name: "Ops", Color: models.ColorBlue, Type: models.IndicatorCategory},
	)
	l := NewLookup(indicators)

	ind, ok := l.Difficulty(models.DifficultyHard)
	require.True(t, ok)
	assert.Equal(t, "imp-hard", ind.ID, "first indicator wins")

	ind, ok = l.Status(models.StatusFailed)
	require.True(t, ok)
	assert.Equal(t, models.ColorRed, ind.Color)

	ind, ok = l.Category("cat")
	require.True(t, ok)
	assert.Equal(t, "Ops", ind.Name)

	_, ok = l.Category("imp-hard")
	assert.False(t, ok)
	_, ok = NewLookup(nil).Status(models.StatusStart)
	assert.False(t, ok)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, Stats{Total: 3, Completed: 1, InProgress: 1, Pending: 1}, ComputeStats(catalog.SampleTasks()))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}
