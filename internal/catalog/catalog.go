// Package catalog holds the seed data used on first run.
package catalog

import (
	"time"

	"github.com/fentz26/taskboard/internal/models"
)

// DefaultIndicators returns the importance and status indicators seeded
// when no indicators are stored. Ids are fixed; createdAt is now.
func DefaultIndicators(now time.Time) []models.Indicator {
	seed := []struct {
		id    string
		name  string
		color models.Color
		typ   models.IndicatorType
	}{
		{"imp-slow", "slow", models.ColorGreen, models.IndicatorImportance},
		{"imp-medium", "medium", models.ColorYellow, models.IndicatorImportance},
		{"imp-hard", "hard", models.ColorRed, models.IndicatorImportance},
		{"status-start", "start", models.ColorBlue, models.IndicatorStatus},
		{"status-pending", "pending", models.ColorYellow, models.IndicatorStatus},
		{"status-progress", "progress", models.ColorLavender, models.IndicatorStatus},
		{"status-failed", "failed", models.ColorRed, models.IndicatorStatus},
		{"status-completed", "completed", models.ColorGreen, models.IndicatorStatus},
	}

	indicators := make([]models.Indicator, len(seed))
	for i, s := range seed {
		indicators[i] = models.Indicator{
			ID:        s.id,
			Name:      s.name,
			Color:     s.color,
			Type:      s.typ,
			CreatedAt: now,
		}
	}
	return indicators
}

// SampleTasks returns the example tasks seeded when no tasks are stored.
func SampleTasks() []models.Task {
	designCreated := utc(2024, 1, 15, 10, 0)
	designUpdated := utc(2024, 1, 16, 14, 30)
	pipelineCreated := utc(2024, 1, 10, 9, 0)
	pipelineDone := utc(2024, 1, 14, 16, 45)
	reviewCreated := utc(2024, 1, 18, 11, 30)

	return []models.Task{
		{
			ID:          "1",
			Title:       "Design new landing page",
			Description: "Create a modern, responsive landing page for the new product launch",
			Difficulty:  models.DifficultyMedium,
			Status:      models.StatusProgress,
			CreatedAt:   designCreated,
			UpdatedAt:   designUpdated,
			History: []models.HistoryEntry{
				{ID: "h1", Timestamp: designCreated, Change: models.Created{}},
				{ID: "h2", Timestamp: designUpdated, Change: models.StatusChanged{Old: models.StatusStart, New: models.StatusProgress}},
			},
		},
		{
			ID:          "2",
			Title:       "Set up CI/CD pipeline",
			Description: "Configure automated testing and deployment for the project",
			Difficulty:  models.DifficultyHard,
			Status:      models.StatusCompleted,
			CreatedAt:   pipelineCreated,
			UpdatedAt:   pipelineDone,
			CompletedAt: &pipelineDone,
			History: []models.HistoryEntry{
				{ID: "h3", Timestamp: pipelineCreated, Change: models.Created{}},
				{ID: "h4", Timestamp: pipelineDone, Change: models.StatusChanged{Old: models.StatusProgress, New: models.StatusCompleted}},
			},
		},
		{
			ID:         "3",
			Title:      "Review team feedback",
			Difficulty: models.DifficultySlow,
			Status:     models.StatusPending,
			CreatedAt:  reviewCreated,
			UpdatedAt:  reviewCreated,
			History: []models.HistoryEntry{
				{ID: "h5", Timestamp: reviewCreated, Change: models.Created{}},
			},
		},
	}
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
