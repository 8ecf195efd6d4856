package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/taskboard/internal/catalog"
	"github.com/fentz26/taskboard/internal/config"
	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/tracker"
)

// execute runs the CLI against a database in dir and returns its output.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "taskboard.db"),
	}, args...))

	err := rootCmd.Execute()
	shutdown()
	return out.String(), err
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func TestTaskLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "task", "add", "--title", "Ship it", "--difficulty", "hard")
	require.NoError(t, err)
	require.Contains(t, out, "Created task: ")
	id := lastField(out)

	out, err = execute(t, dir, "task", "edit", id[:8], "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "1 change(s) recorded")

	out, err = execute(t, dir, "task", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Title:       Ship it")
	assert.Contains(t, out, "Status:      completed")
	assert.Contains(t, out, "Difficulty:  hard")
	assert.Contains(t, out, "Completed:")
	assert.Contains(t, out, "History (2):")
	assert.Less(t, strings.Index(out, "Status changed"), strings.Index(out, "Task was created"))

	// The seeded "Set up CI/CD pipeline" task is completed too.
	out, err = execute(t, dir, "task", "list", "--status", "completed", "--sort", "title", "--order", "asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 4 tasks")
	assert.Less(t, strings.Index(out, "Set up CI/CD pipeline"), strings.Index(out, "Ship it"))

	out, err = execute(t, dir, "task", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task: Ship it")

	out, err = execute(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:       3")
	assert.Contains(t, out, "Completed:   1")
}

func TestTaskCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "task", "add", "--title", "   ")
	assert.ErrorIs(t, err, tracker.ErrBlankTitle)

	_, err = execute(t, dir, "task", "edit", "1")
	assert.ErrorContains(t, err, "nothing to change")

	_, err = execute(t, dir, "task", "edit", "1", "--status", "done")
	assert.Error(t, err)

	_, err = execute(t, dir, "task", "show", "missing")
	assert.ErrorIs(t, err, tracker.ErrTaskNotFound)

	_, err = execute(t, dir, "task", "edit", "1", "--category", "nope")
	assert.ErrorIs(t, err, tracker.ErrUnknownCategory)

	_, err = execute(t, dir, "task", "list", "--sort", "priority")
	assert.ErrorContains(t, err, "invalid sort key")
}

func TestIndicatorCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "indicator", "add", "Launch", "prep", "--color", "peach")
	require.NoError(t, err)
	assert.Contains(t, out, `Created category indicator "Launch prep"`)
	catID := lastField(out)

	_, err = execute(t, dir, "task", "edit", "1", "--category", catID)
	require.NoError(t, err)

	out, err = execute(t, dir, "indicator", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "IMPORTANCE (3)")
	assert.Contains(t, out, "STATUS (5)")
	assert.Contains(t, out, "CATEGORY (1)")
	assert.Contains(t, out, "Launch prep")

	out, err = execute(t, dir, "task", "list", "--category", catID)
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 of 3 tasks")

	// The short ID printed by indicator list works as a filter.
	out, err = execute(t, dir, "task", "list", "--category", catID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 of 3 tasks")

	out, err = execute(t, dir, "indicator", "rm", catID)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared category from 1 task(s)")

	out, err = execute(t, dir, "task", "list", "--category", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 3 of 3 tasks")

	_, err = execute(t, dir, "indicator", "add", "Bad", "--type", "priority")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")

	out, err := execute(t, dir, "export", "--format", "yaml", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 tasks to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fromFile struct {
		Tasks []map[string]any `yaml:"tasks"`
		Stats query.Stats      `yaml:"stats"`
	}
	require.NoError(t, yaml.Unmarshal(data, &fromFile))
	assert.Len(t, fromFile.Tasks, 3)
	assert.Equal(t, 3, fromFile.Stats.Total)

	// A directory cannot be written as a file.
	_, err = execute(t, dir, "export", "-o", dir)
	assert.ErrorContains(t, err, "creating export file")

	out, err = execute(t, dir, "export")
	require.NoError(t, err)
	var decoded struct {
		Tasks      []models.Task      `json:"tasks"`
		Indicators []models.Indicator `json:"indicators"`
		Stats      query.Stats        `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Tasks, 3)
	assert.Len(t, decoded.Indicators, 8)
	assert.Equal(t, 3, decoded.Stats.Total)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "taskboard.db")

	out, err := execute(t, dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote config: "+path)
	// Config commands never open the database.
	assert.NoFileExists(t, dbPath)

	c, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, dbPath, c.DBPath)
	assert.Equal(t, "info", c.Log.Level)

	_, err = execute(t, dir, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, dir, "config", "init", "--force", "--log-level", "debug")
	require.NoError(t, err)
	c, err = config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)

	out, err = execute(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "db_path: "+dbPath)
	assert.Contains(t, out, "level: debug")
}

func TestSetupOpensDatabase(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "stats")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "taskboard.db"))

	// A directory in place of the database file fails setup.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "taskboard.db"), 0o755))
	_, err = execute(t, blocked, "stats")
	assert.Error(t, err)
}

func TestVersionSkipsSetup(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Taskboard version dev")
}

func TestTaskFlagsApply(t *testing.T) {
	changed := func(names ...string) func(string) bool {
		set := map[string]bool{}
		for _, n := range names {
			set[n] = true
		}
		return func(name string) bool { return set[name] }
	}
	base := tracker.TaskInput{
		Title:       "Old",
		Description: "Keep me",
		Difficulty:  models.DifficultySlow,
		Status:      models.StatusPending,
		CategoryID:  "cat-1",
	}

	f := taskFlags{title: "New", desc: "ignored", status: "Progress", noCategory: true}
	in, err := f.apply(base, changed("title", "status", "no-category"))
	require.NoError(t, err)
	assert.Equal(t, "New", in.Title)
	assert.Equal(t, "Keep me", in.Description)
	assert.Equal(t, models.DifficultySlow, in.Difficulty)
	assert.Equal(t, models.StatusProgress, in.Status)
	assert.Empty(t, in.CategoryID)

	_, err = taskFlags{difficulty: "extreme"}.apply(base, changed("difficulty"))
	assert.Error(t, err)
}

func TestListFlagsOptions(t *testing.T) {
	defaults := query.DefaultOptions()
	identity := func(ref string) (string, error) { return ref, nil }

	tests := []struct {
		name  string
		flags listFlags
		want  func(o *query.Options)
	}{
		{
			name:  "defaults",
			flags: listFlags{status: query.All, difficulty: query.All, category: query.All},
			want:  func(o *query.Options) {},
		},
		{
			name:  "filters normalized",
			flags: listFlags{search: "  landing ", status: "PENDING", difficulty: "Hard", category: "none"},
			want: func(o *query.Options) {
				o.Filters.Search = "landing"
				o.Filters.Status = "pending"
				o.Filters.Difficulty = "hard"
				o.Filters.Category = query.NoCategory
			},
		},
		{
			name:  "sort override",
			flags: listFlags{category: "cat-1", sortBy: "title", order: "asc"},
			want: func(o *query.Options) {
				o.Filters.Category = "cat-1"
				o.SortBy = query.SortTitle
				o.Order = query.Asc
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := defaults
			tt.want(&want)
			got, err := tt.flags.options(defaults, identity)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := listFlags{status: "done"}.options(defaults, identity)
	assert.Error(t, err)
	_, err = listFlags{order: "sideways"}.options(defaults, identity)
	assert.ErrorContains(t, err, "invalid order")

	expand := func(ref string) (string, error) {
		if ref == "cat" {
			return "", errors.New("ambiguous")
		}
		return ref + "-full", nil
	}
	got, err := listFlags{category: "cat-1"}.options(defaults, expand)
	require.NoError(t, err)
	assert.Equal(t, "cat-1-full", got.Filters.Category)
	_, err = listFlags{category: "cat"}.options(defaults, expand)
	assert.ErrorContains(t, err, "ambiguous")
}

func TestPrintTaskTable(t *testing.T) {
	var buf bytes.Buffer
	printTaskTable(&buf, nil, 0, query.NewLookup(nil))
	assert.Equal(t, "No tasks found\n", buf.String())

	buf.Reset()
	tasks := catalog.SampleTasks()
	printTaskTable(&buf, tasks[:1], len(tasks), query.NewLookup(catalog.DefaultIndicators(time.Now())))
	assert.Contains(t, buf.String(), "ID  ")
	assert.Contains(t, buf.String(), "Design new landing page")
	assert.Contains(t, buf.String(), "Showing 1 of 3 tasks")
}

func TestWriteSnapshot(t *testing.T) {
	snap := snapshot{Tasks: catalog.SampleTasks()}

	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, "yaml", snap))
	assert.Contains(t, buf.String(), "tasks:")
	assert.Contains(t, buf.String(), "action: created")
	assert.Contains(t, buf.String(), "indicators: []")

	buf.Reset()
	require.NoError(t, writeSnapshot(&buf, "json", snapshot{}))
	assert.Contains(t, buf.String(), `"tasks": []`)

	assert.ErrorContains(t, writeSnapshot(&buf, "xml", snap), "invalid format")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "12345678", truncateID("1234567890"))
	assert.Equal(t, "1", truncateID("1"))
}
