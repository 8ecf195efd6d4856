package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action tags the kind of change a history entry records.
type Action string

const (
	ActionCreated           Action = "created"
	ActionUpdated           Action = "updated"
	ActionStatusChanged     Action = "status_changed"
	ActionDifficultyChanged Action = "difficulty_changed"
	ActionCategoryChanged   Action = "category_changed"
)

// Change is the payload of a history entry. Exactly one of the concrete
// types below implements it per action.
type Change interface {
	Action() Action
	isChange()
}

// Created records the creation of a task.
type Created struct{}

// Details is the title/description pair captured by DetailsUpdated.
type Details struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DetailsUpdated records a title and/or description change.
type DetailsUpdated struct {
	Old Details
	New Details
}

// StatusChanged records a status transition.
type StatusChanged struct {
	Old Status
	New Status
}

// DifficultyChanged records a difficulty change.
type DifficultyChanged struct {
	Old Difficulty
	New Difficulty
}

// CategoryChanged records a category reassignment. Empty means no category.
type CategoryChanged struct {
	Old string
	New string
}

func (Created) Action() Action           { return ActionCreated }
func (DetailsUpdated) Action() Action    { return ActionUpdated }
func (StatusChanged) Action() Action     { return ActionStatusChanged }
func (DifficultyChanged) Action() Action { return ActionDifficultyChanged }
func (CategoryChanged) Action() Action   { return ActionCategoryChanged }

func (Created) isChange()           {}
func (DetailsUpdated) isChange()    {}
func (StatusChanged) isChange()     {}
func (DifficultyChanged) isChange() {}
func (CategoryChanged) isChange()   {}

// HistoryEntry is an immutable audit record of one change to a task.
type HistoryEntry struct {
	ID        string
	Timestamp time.Time
	Change    Change
}

// Action returns the tag of the entry's change.
func (e HistoryEntry) Action() Action {
	if e.Change == nil {
		return ""
	}
	return e.Change.Action()
}

// Describe returns a human readable sentence for the entry.
func (e HistoryEntry) Describe() string {
	switch c := e.Change.(type) {
	case Created:
		return "Task was created"
	case DetailsUpdated:
		return "Task details were updated"
	case StatusChanged:
		return fmt.Sprintf("Status changed from %q to %q", c.Old, c.New)
	case DifficultyChanged:
		return fmt.Sprintf("Difficulty changed from %q to %q", c.Old, c.New)
	case CategoryChanged:
		return fmt.Sprintf("Category changed from %s to %s", categoryLabel(c.Old), categoryLabel(c.New))
	default:
		return "Unknown action"
	}
}

func categoryLabel(id string) string {
	if id == "" {
		return "none"
	}
	return fmt.Sprintf("%q", id)
}

// historyRecord is the stored shape of a history entry: a flat record with
// an action tag and untyped old/new values.
type historyRecord struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Action    Action          `json:"action"`
	Field     string          `json:"field,omitempty"`
	OldValue  json.RawMessage `json:"oldValue,omitempty"`
	NewValue  json.RawMessage `json:"newValue,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	field, oldValue, newValue, err := e.values()
	if err != nil {
		return nil, err
	}
	rec := historyRecord{ID: e.ID, Timestamp: e.Timestamp, Action: e.Action(), Field: field}
	if rec.OldValue, err = rawValue(oldValue); err != nil {
		return nil, err
	}
	if rec.NewValue, err = rawValue(newValue); err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// MarshalYAML implements yaml.Marshaler with the same flat shape as JSON.
func (e HistoryEntry) MarshalYAML() (any, error) {
	field, oldValue, newValue, err := e.values()
	if err != nil {
		return nil, err
	}
	return struct {
		ID        string    `yaml:"id"`
		Timestamp time.Time `yaml:"timestamp"`
		Action    Action    `yaml:"action"`
		Field     string    `yaml:"field,omitempty"`
		OldValue  any       `yaml:"oldValue,omitempty"`
		NewValue  any       `yaml:"newValue,omitempty"`
	}{e.ID, e.Timestamp, e.Action(), field, oldValue, newValue}, nil
}

// values flattens the change into its stored field name and old/new values.
// A cleared category is reported as nil.
func (e HistoryEntry) values() (field string, oldValue, newValue any, err error) {
	switch c := e.Change.(type) {
	case Created:
	case DetailsUpdated:
		oldValue, newValue = c.Old, c.New
	case StatusChanged:
		field, oldValue, newValue = "status", c.Old, c.New
	case DifficultyChanged:
		field, oldValue, newValue = "difficulty", c.Old, c.New
	case CategoryChanged:
		field = "category"
		if c.Old != "" {
			oldValue = c.Old
		}
		if c.New != "" {
			newValue = c.New
		}
	default:
		return "", nil, nil, fmt.Errorf("history entry %s has no change", e.ID)
	}
	return field, oldValue, newValue, nil
}

func rawValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var rec historyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("history entry missing id")
	}
	if rec.Timestamp.IsZero() {
		return fmt.Errorf("history entry %s missing timestamp", rec.ID)
	}

	var change Change
	switch rec.Action {
	case ActionCreated:
		change = Created{}
	case ActionUpdated:
		var c DetailsUpdated
		if err := decodePair(rec, &c.Old, &c.New); err != nil {
			return err
		}
		change = c
	case ActionStatusChanged:
		var c StatusChanged
		if err := decodePair(rec, &c.Old, &c.New); err != nil {
			return err
		}
		if !c.Old.Valid() || !c.New.Valid() {
			return fmt.Errorf("history entry %s: invalid status change %q -> %q", rec.ID, c.Old, c.New)
		}
		change = c
	case ActionDifficultyChanged:
		var c DifficultyChanged
		if err := decodePair(rec, &c.Old, &c.New); err != nil {
			return err
		}
		if !c.Old.Valid() || !c.New.Valid() {
			return fmt.Errorf("history entry %s: invalid difficulty change %q -> %q", rec.ID, c.Old, c.New)
		}
		change = c
	case ActionCategoryChanged:
		var c CategoryChanged
		if err := decodePair(rec, &c.Old, &c.New); err != nil {
			return err
		}
		change = c
	default:
		return fmt.Errorf("history entry %s: unknown action %q", rec.ID, rec.Action)
	}

	*e = HistoryEntry{ID: rec.ID, Timestamp: rec.Timestamp, Change: change}
	return nil
}

// decodePair decodes the old and new values of rec. Missing values leave
// the targets at their zero value.
func decodePair(rec historyRecord, oldTarget, newTarget any) error {
	if len(rec.OldValue) > 0 && string(rec.OldValue) != "null" {
		if err := json.Unmarshal(rec.OldValue, oldTarget); err != nil {
			return fmt.Errorf("history entry %s: old value: %w", rec.ID, err)
		}
	}
	if len(rec.NewValue) > 0 && string(rec.NewValue) != "null" {
		if err := json.Unmarshal(rec.NewValue, newTarget); err != nil {
			return fmt.Errorf("history entry %s: new value: %w", rec.ID, err)
		}
	}
	return nil
}
