// Package tracker owns the task and indicator collections, applies
// mutations and mirrors every change to a key-value store.
package tracker

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fentz26/taskboard/internal/audit"
	"github.com/fentz26/taskboard/internal/catalog"
	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/store"
)

// Storage keys for the two collections.
const (
	TasksKey      = "taskManager_tasks"
	IndicatorsKey = "taskManager_indicators"
)

// Options carries the injectable collaborators of a Tracker. Zero fields
// fall back to the wall clock, random uuids, a no-op notifier and a no-op
// logger.
type Options struct {
	Clock    func() time.Time
	NewID    func() string
	Notifier Notifier
	Logger   *zap.Logger
}

// Tracker is the authoritative in-memory state of one session.
type Tracker struct {
	mu         sync.RWMutex
	kv         store.KV
	now        func() time.Time
	newID      func() string
	notifier   Notifier
	log        *zap.Logger
	recorder   *audit.Recorder
	tasks      []models.Task
	indicators []models.Indicator
	persistErr error
}

// TaskInput is the editable state of a task. Empty Difficulty and Status
// take their defaults; empty CategoryID means no category.
type TaskInput struct {
	Title       string
	Description string
	Difficulty  models.Difficulty `validate:"difficulty"`
	Status      models.Status     `validate:"status"`
	CategoryID  string
}

// IndicatorInput describes a new indicator. Empty Type defaults to category
// and empty Color to the default palette color.
type IndicatorInput struct {
	Name  string
	Color models.Color         `validate:"palette_color"`
	Type  models.IndicatorType `validate:"indicator_type"`
}

// InputFrom returns the editable state of t, for use as the base of an
// update.
func InputFrom(t models.Task) TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Difficulty:  t.Difficulty,
		Status:      t.Status,
		CategoryID:  t.CategoryID,
	}
}

// New creates an empty tracker over kv. Call Load to restore state.
func New(kv store.KV, opts Options) *Tracker {
	t := &Tracker{
		kv:       kv,
		now:      opts.Clock,
		newID:    opts.NewID,
		notifier: opts.Notifier,
		log:      opts.Logger,
	}
	if t.now == nil {
		t.now = func() time.Time { return time.Now().UTC() }
	}
	if t.newID == nil {
		t.newID = uuid.NewString
	}
	if t.notifier == nil {
		t.notifier = nopNotifier{}
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	t.recorder = audit.NewRecorder(t.newID)
	return t
}

// Load restores both collections from the store. Each key is handled on its
// own: if it is missing, unreadable or malformed, seed data is substituted
// and written back. Load never fails.
func (t *Tracker) Load() {
	t.mu.Lock()
	defer t.mu.Unlock()

	indicators, ok := loadCollection(t, IndicatorsKey, func(ind models.Indicator) error { return checkStruct(ind) })
	if !ok {
		indicators = catalog.DefaultIndicators(t.now())
		t.log.Info("seeding default indicators", zap.Int("count", len(indicators)))
		persist(t, IndicatorsKey, indicators)
	}
	t.indicators = indicators

	tasks, ok := loadCollection(t, TasksKey, func(task models.Task) error { return checkStruct(task) })
	if !ok {
		tasks = catalog.SampleTasks()
		t.log.Info("seeding sample tasks", zap.Int("count", len(tasks)))
		persist(t, TasksKey, tasks)
	}
	t.tasks = tasks

	// The two keys fall back independently, so stored tasks may reference
	// categories that the restored indicators no longer contain.
	if cleared := t.clearDanglingCategories(); cleared > 0 {
		t.log.Warn("cleared dangling category references", zap.Int("tasks_cleared", cleared))
		persist(t, TasksKey, t.tasks)
	}

	t.log.Debug("tracker loaded",
		zap.Int("tasks", len(t.tasks)),
		zap.Int("indicators", len(t.indicators)),
	)
}

// loadCollection reads and decodes the collection under key. ok is false
// when the caller should seed instead.
func loadCollection[T any](t *Tracker, key string, check func(T) error) ([]T, bool) {
	raw, found, err := t.kv.Get(key)
	if err != nil {
		t.log.Error("failed to read stored collection", zap.String("key", key), zap.Error(err))
		t.notifier.Notify(Notice{Level: LevelError, Message: "could not read saved data, using defaults", Err: err})
		return nil, false
	}
	if !found {
		t.log.Info("no stored collection", zap.String("key", key))
		return nil, false
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.warnMalformed(key, err)
		return nil, false
	}
	if items == nil {
		t.warnMalformed(key, fmt.Errorf("expected an array"))
		return nil, false
	}
	for i, item := range items {
		if err := check(item); err != nil {
			t.warnMalformed(key, fmt.Errorf("item %d: %w", i, err))
			return nil, false
		}
	}
	return items, true
}

func (t *Tracker) warnMalformed(key string, err error) {
	t.log.Warn("stored collection is malformed, falling back to defaults", zap.String("key", key), zap.Error(err))
	t.notifier.Notify(Notice{Level: LevelWarning, Message: "saved data was unreadable, defaults restored", Err: err})
}

// --- Snapshots ---

// Tasks returns a copy of the task collection in stored order.
func (t *Tracker) Tasks() []models.Task {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Task, len(t.tasks))
	for i, task := range t.tasks {
		out[i] = task.Clone()
	}
	return out
}

// Indicators returns a copy of the indicator collection in stored order.
func (t *Tracker) Indicators() []models.Indicator {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]models.Indicator{}, t.indicators...)
}

// Task returns the task with the given id.
func (t *Tracker) Task(id string) (models.Task, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.taskIndex(id)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return t.tasks[i].Clone(), nil
}

// Indicator returns the indicator with the given id.
func (t *Tracker) Indicator(id string) (models.Indicator, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.indicatorIndex(id)
	if i < 0 {
		return models.Indicator{}, ErrIndicatorNotFound
	}
	return t.indicators[i], nil
}

// PersistErr returns the most recent persistence failure, or nil if the
// last write succeeded.
func (t *Tracker) PersistErr() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.persistErr
}

// --- Task Operations ---

// CreateTask validates in, creates the task at the front of the collection
// with a single created history entry and persists the collection.
func (t *Tracker) CreateTask(in TaskInput) (models.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	in, err := t.normalizeTask(in)
	if err != nil {
		return models.Task{}, err
	}

	now := t.now()
	task := models.Task{
		ID:          t.newID(),
		Title:       in.Title,
		Description: in.Description,
		Difficulty:  in.Difficulty,
		Status:      in.Status,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
		CompletedAt: completedAt(in.Status, now),
		History:     []models.HistoryEntry{t.recorder.Created(now)},
	}

	t.tasks = append([]models.Task{task}, t.tasks...)
	t.log.Debug("task created", zap.String("task_id", task.ID))
	persist(t, TasksKey, t.tasks)
	return task.Clone(), nil
}

// UpdateTask replaces the editable fields of task id with in, appends one
// history entry per semantic change, stamps updatedAt and recomputes
// completedAt. id and createdAt are preserved.
func (t *Tracker) UpdateTask(id string, in TaskInput) (models.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.taskIndex(id)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	existing := t.tasks[i]

	in, err := t.normalizeTask(in)
	if err != nil {
		return models.Task{}, err
	}

	now := t.now()
	updated := existing.Clone()
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Difficulty = in.Difficulty
	updated.Status = in.Status
	updated.CategoryID = in.CategoryID
	updated.UpdatedAt = now
	updated.CompletedAt = completedAt(in.Status, now)
	updated.History = append(updated.History, t.recorder.Diff(existing, updated, now)...)

	t.tasks[i] = updated
	t.log.Debug("task updated",
		zap.String("task_id", id),
		zap.Int("changes", len(updated.History)-len(existing.History)),
	)
	persist(t, TasksKey, t.tasks)
	return updated.Clone(), nil
}

// DeleteTask removes task id. No other entity is affected.
func (t *Tracker) DeleteTask(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.taskIndex(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	t.tasks = append(t.tasks[:i:i], t.tasks[i+1:]...)

	t.log.Debug("task deleted", zap.String("task_id", id))
	persist(t, TasksKey, t.tasks)
	return nil
}

// normalizeTask trims and defaults in and checks it. A category must name an
// existing category indicator.
func (t *Tracker) normalizeTask(in TaskInput) (TaskInput, error) {
	in.Title = sanitizeText(in.Title)
	in.Description = sanitizeText(in.Description)
	in.CategoryID = sanitizeText(in.CategoryID)
	if in.Title == "" {
		return in, ErrBlankTitle
	}
	if in.Difficulty == "" {
		in.Difficulty = models.DifficultyMedium
	}
	if in.Status == "" {
		in.Status = models.StatusStart
	}
	if err := checkStruct(in); err != nil {
		return in, err
	}
	if in.CategoryID != "" {
		i := t.indicatorIndex(in.CategoryID)
		if i < 0 || t.indicators[i].Type != models.IndicatorCategory {
			return in, fmt.Errorf("%w: %s", ErrUnknownCategory, in.CategoryID)
		}
	}
	return in, nil
}

// completedAt is now for a completed status and nil otherwise. A task saved
// again as completed gets a fresh timestamp.
func completedAt(status models.Status, now time.Time) *time.Time {
	if status != models.StatusCompleted {
		return nil
	}
	return &now
}

// --- Indicator Operations ---

// CreateIndicator validates in and appends a new indicator.
func (t *Tracker) CreateIndicator(in IndicatorInput) (models.Indicator, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	in.Name = sanitizeText(in.Name)
	if in.Name == "" {
		return models.Indicator{}, ErrBlankName
	}
	if in.Type == "" {
		in.Type = models.IndicatorCategory
	}
	if in.Color == "" {
		in.Color = models.DefaultColor
	}
	if err := checkStruct(in); err != nil {
		return models.Indicator{}, err
	}

	ind := models.Indicator{
		ID:        t.newID(),
		Name:      in.Name,
		Color:     in.Color,
		Type:      in.Type,
		CreatedAt: t.now(),
	}
	t.indicators = append(t.indicators, ind)

	t.log.Debug("indicator created", zap.String("indicator_id", ind.ID), zap.String("type", string(ind.Type)))
	persist(t, IndicatorsKey, t.indicators)
	return ind, nil
}

// DeleteIndicator removes indicator id. Deleting a category indicator clears
// the category of every task that referenced it; that clear is a direct
// field reset that neither records history nor touches updatedAt. It
// returns the number of tasks cleared.
func (t *Tracker) DeleteIndicator(id string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indicatorIndex(id)
	if i < 0 {
		return 0, ErrIndicatorNotFound
	}
	removed := t.indicators[i]
	t.indicators = append(t.indicators[:i:i], t.indicators[i+1:]...)
	persist(t, IndicatorsKey, t.indicators)

	cleared := 0
	if removed.Type == models.IndicatorCategory {
		for j := range t.tasks {
			if t.tasks[j].CategoryID == id {
				t.tasks[j].CategoryID = ""
				cleared++
			}
		}
	}
	if cleared > 0 {
		persist(t, TasksKey, t.tasks)
	}

	t.log.Debug("indicator deleted", zap.String("indicator_id", id), zap.Int("tasks_cleared", cleared))
	return cleared, nil
}

// clearDanglingCategories resets every category that does not resolve to a
// category indicator. Like the delete cascade it records no history.
func (t *Tracker) clearDanglingCategories() int {
	cleared := 0
	for j := range t.tasks {
		id := t.tasks[j].CategoryID
		if id == "" {
			continue
		}
		if i := t.indicatorIndex(id); i < 0 || t.indicators[i].Type != models.IndicatorCategory {
			t.tasks[j].CategoryID = ""
			cleared++
		}
	}
	return cleared
}

// --- Persistence ---

// persist writes the whole collection under key, an empty collection as
// []. Failures are recorded and reported but never roll back the in-memory
// state.
func persist[T any](t *Tracker, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err == nil {
		err = t.kv.Set(key, string(data))
	}
	if err != nil {
		t.persistErr = fmt.Errorf("save %s: %w", key, err)
		t.log.Error("failed to persist collection", zap.String("key", key), zap.Error(err))
		t.notifier.Notify(Notice{Level: LevelError, Message: "changes could not be saved", Err: err})
		return
	}
	t.persistErr = nil
}

func (t *Tracker) taskIndex(id string) int {
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) indicatorIndex(id string) int {
	for i := range t.indicators {
		if t.indicators[i].ID == id {
			return i
		}
	}
	return -1
}
