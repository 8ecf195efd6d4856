// Package models defines the core domain types for the task board.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the importance level of a task.
type Difficulty string

const (
	DifficultySlow   Difficulty = "slow"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties returns every difficulty in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultySlow, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultySlow, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty parses a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q (must be slow, medium or hard)", s)
	}
	return d, nil
}

// Status represents the current state of a task.
type Status string

const (
	StatusStart     Status = "start"
	StatusPending   Status = "pending"
	StatusProgress  Status = "progress"
	StatusFailed    Status = "failed"
	StatusCompleted Status = "completed"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusStart, StatusPending, StatusProgress, StatusFailed, StatusCompleted}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusStart, StatusPending, StatusProgress, StatusFailed, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (must be start, pending, progress, failed or completed)", s)
	}
	return st, nil
}

// Task represents a unit of work.
//
// Description and CategoryID are optional; the empty string means absent.
// CategoryID is a weak reference to a category Indicator.
type Task struct {
	ID          string         `json:"id" yaml:"id" validate:"required"`
	Title       string         `json:"title" yaml:"title" validate:"required"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Difficulty  Difficulty     `json:"difficulty" yaml:"difficulty" validate:"difficulty"`
	Status      Status         `json:"status" yaml:"status" validate:"status"`
	CategoryID  string         `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" yaml:"createdAt" validate:"required"`
	UpdatedAt   time.Time      `json:"updatedAt" yaml:"updatedAt" validate:"required"`
	CompletedAt *time.Time     `json:"completedAt" yaml:"completedAt"`
	History     []HistoryEntry `json:"history" yaml:"history"`
}

// HasCategory reports whether the task references a category indicator.
func (t Task) HasCategory() bool {
	return t.CategoryID != ""
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.History = append([]HistoryEntry(nil), t.History...)
	return c
}

// IndicatorType determines how an indicator relates to tasks.
type IndicatorType string

const (
	IndicatorImportance IndicatorType = "importance"
	IndicatorStatus     IndicatorType = "status"
	IndicatorCategory   IndicatorType = "category"
)

// IndicatorTypes returns every indicator type in display order.
func IndicatorTypes() []IndicatorType {
	return []IndicatorType{IndicatorImportance, IndicatorStatus, IndicatorCategory}
}

// Valid reports whether t is a known indicator type.
func (t IndicatorType) Valid() bool {
	switch t {
	case IndicatorImportance, IndicatorStatus, IndicatorCategory:
		return true
	}
	return false
}

// ParseIndicatorType parses an indicator type case-insensitively.
func ParseIndicatorType(s string) (IndicatorType, error) {
	t := IndicatorType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid indicator type %q (must be importance, status or category)", s)
	}
	return t, nil
}

// Indicator is a user-defined label with a name and color.
type Indicator struct {
	ID        string        `json:"id" yaml:"id" validate:"required"`
	Name      string        `json:"name" yaml:"name" validate:"required"`
	Color     Color         `json:"color" yaml:"color" validate:"palette_color"`
	Type      IndicatorType `json:"type" yaml:"type" validate:"indicator_type"`
	CreatedAt time.Time     `json:"createdAt" yaml:"createdAt" validate:"required"`
}

// Key returns the lowercased name used to match importance and status
// indicators against task fields.
func (i Indicator) Key() string {
	return strings.ToLower(i.Name)
}
