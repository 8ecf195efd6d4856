// Package audit builds the change history recorded on tasks.
package audit

import (
	"time"

	"github.com/fentz26/taskboard/internal/models"
)

// Recorder derives history entries from task mutations.
type Recorder struct {
	newID func() string
}

// NewRecorder creates a recorder that stamps entries with ids from newID.
func NewRecorder(newID func() string) *Recorder {
	return &Recorder{newID: newID}
}

// Created returns the entry recorded when a task is first created.
func (r *Recorder) Created(at time.Time) models.HistoryEntry {
	return r.entry(at, models.Created{})
}

// Diff compares the mutable fields of old and updated and returns one entry
// per semantic change, all stamped with at. Entries are ordered details,
// status, difficulty, category. Neither task is modified.
func (r *Recorder) Diff(old, updated models.Task, at time.Time) []models.HistoryEntry {
	var entries []models.HistoryEntry

	if old.Title != updated.Title || old.Description != updated.Description {
		entries = append(entries, r.entry(at, models.DetailsUpdated{
			Old: models.Details{Title: old.Title, Description: old.Description},
			New: models.Details{Title: updated.Title, Description: updated.Description},
		}))
	}
	if old.Status != updated.Status {
		entries = append(entries, r.entry(at, models.StatusChanged{Old: old.Status, New: updated.Status}))
	}
	if old.Difficulty != updated.Difficulty {
		entries = append(entries, r.entry(at, models.DifficultyChanged{Old: old.Difficulty, New: updated.Difficulty}))
	}
	if old.CategoryID != updated.CategoryID {
		entries = append(entries, r.entry(at, models.CategoryChanged{Old: old.CategoryID, New: updated.CategoryID}))
	}

	return entries
}

func (r *Recorder) entry(at time.Time, change models.Change) models.HistoryEntry {
	return models.HistoryEntry{
		ID:        r.newID(),
		Timestamp: at,
		Change:    change,
	}
}
