package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/tracker"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Edit a task. Only the flags given are changed; each change is recorded
in the task's history.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskEdit,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details and history",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

// taskFlags holds the editable task fields given on the command line.
type taskFlags struct {
	title      string
	desc       string
	difficulty string
	status     string
	category   string
	noCategory bool
}

// listFlags holds the view flags of task list.
type listFlags struct {
	search     string
	status     string
	difficulty string
	category   string
	sortBy     string
	order      string
}

var (
	addFlags  taskFlags
	editFlags taskFlags
	viewFlags listFlags
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskRmCmd, taskListCmd, taskShowCmd)

	taskAddCmd.Flags().StringVar(&addFlags.title, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&addFlags.desc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&addFlags.difficulty, "difficulty", "", "Difficulty: slow, medium, hard (default medium)")
	taskAddCmd.Flags().StringVar(&addFlags.status, "status", "", "Status: start, pending, progress, failed, completed (default start)")
	taskAddCmd.Flags().StringVar(&addFlags.category, "category", "", "Category indicator ID")
	taskAddCmd.MarkFlagRequired("title")

	taskEditCmd.Flags().StringVar(&editFlags.title, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&editFlags.desc, "desc", "", "New description (empty clears it)")
	taskEditCmd.Flags().StringVar(&editFlags.difficulty, "difficulty", "", "New difficulty")
	taskEditCmd.Flags().StringVar(&editFlags.status, "status", "", "New status")
	taskEditCmd.Flags().StringVar(&editFlags.category, "category", "", "New category indicator ID")
	taskEditCmd.Flags().BoolVar(&editFlags.noCategory, "no-category", false, "Remove the task's category")
	taskEditCmd.MarkFlagsMutuallyExclusive("category", "no-category")

	taskListCmd.Flags().StringVar(&viewFlags.search, "search", "", "Case-insensitive text in title or description")
	taskListCmd.Flags().StringVar(&viewFlags.status, "status", query.All, "Filter by status")
	taskListCmd.Flags().StringVar(&viewFlags.difficulty, "difficulty", query.All, "Filter by difficulty")
	taskListCmd.Flags().StringVar(&viewFlags.category, "category", query.All, "Filter by category ID, or none")
	taskListCmd.Flags().StringVar(&viewFlags.sortBy, "sort", "", "Sort by created, updated or title (default from config)")
	taskListCmd.Flags().StringVar(&viewFlags.order, "order", "", "Sort order asc or desc (default from config)")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	in, err := addFlags.apply(tracker.TaskInput{}, func(string) bool { return true })
	if err != nil {
		return err
	}
	task, err := board.CreateTask(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s\n", task.ID)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	task, err := resolveTask(args[0])
	if err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	if !changed("title") && !changed("desc") && !changed("difficulty") &&
		!changed("status") && !changed("category") && !changed("no-category") {
		return fmt.Errorf("nothing to change: pass at least one of --title, --desc, --difficulty, --status, --category, --no-category")
	}

	in, err := editFlags.apply(tracker.InputFrom(task), changed)
	if err != nil {
		return err
	}
	updated, err := board.UpdateTask(task.ID, in)
	if err != nil {
		return err
	}

	added := len(updated.History) - len(task.History)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s (%d change(s) recorded)\n", truncateID(updated.ID), added)
	return nil
}

// apply copies the changed flags onto in. Empty difficulty or status on add
// leaves the tracker defaults in place.
func (f taskFlags) apply(in tracker.TaskInput, changed func(string) bool) (tracker.TaskInput, error) {
	if changed("title") {
		in.Title = f.title
	}
	if changed("desc") {
		in.Description = f.desc
	}
	if changed("difficulty") && f.difficulty != "" {
		d, err := models.ParseDifficulty(f.difficulty)
		if err != nil {
			return in, err
		}
		in.Difficulty = d
	}
	if changed("status") && f.status != "" {
		s, err := models.ParseStatus(f.status)
		if err != nil {
			return in, err
		}
		in.Status = s
	}
	if changed("category") && f.category != "" {
		id, err := resolveIndicatorID(f.category)
		if err != nil {
			return in, err
		}
		in.CategoryID = id
	}
	if changed("no-category") && f.noCategory {
		in.CategoryID = ""
	}
	return in, nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	task, err := resolveTask(args[0])
	if err != nil {
		return err
	}
	if err := board.DeleteTask(task.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task: %s\n", task.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	opts, err := viewFlags.options(viewDefaults(), resolveIndicatorID)
	if err != nil {
		return err
	}

	tasks := board.Tasks()
	visible := query.View(tasks, opts)
	printTaskTable(cmd.OutOrStdout(), visible, len(tasks), query.NewLookup(board.Indicators()))
	return nil
}

// options builds the view described by the flags on top of defaults.
// resolve expands a category ID prefix.
func (f listFlags) options(defaults query.Options, resolve func(string) (string, error)) (query.Options, error) {
	opts := defaults
	opts.Filters.Search = strings.TrimSpace(f.search)

	if v := strings.ToLower(f.status); v != "" && v != query.All {
		s, err := models.ParseStatus(v)
		if err != nil {
			return opts, err
		}
		opts.Filters.Status = string(s)
	}
	if v := strings.ToLower(f.difficulty); v != "" && v != query.All {
		d, err := models.ParseDifficulty(v)
		if err != nil {
			return opts, err
		}
		opts.Filters.Difficulty = string(d)
	}
	switch v := f.category; strings.ToLower(v) {
	case "", query.All:
	case "none", query.NoCategory:
		opts.Filters.Category = query.NoCategory
	default:
		id, err := resolve(v)
		if err != nil {
			return opts, err
		}
		opts.Filters.Category = id
	}

	if f.sortBy != "" {
		by, ok := query.ParseSortKey(f.sortBy)
		if !ok {
			return opts, fmt.Errorf("invalid sort key %q, must be: created, updated, or title", f.sortBy)
		}
		opts.SortBy = by
	}
	if f.order != "" {
		order, ok := query.ParseOrder(f.order)
		if !ok {
			return opts, fmt.Errorf("invalid order %q, must be: asc or desc", f.order)
		}
		opts.Order = order
	}
	return opts, nil
}

func printTaskTable(out io.Writer, tasks []models.Task, total int, lookup query.Lookup) {
	if total == 0 {
		fmt.Fprintln(out, "No tasks found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDIFFICULTY\tCATEGORY\tUPDATED")
	for _, t := range tasks {
		category := ""
		if ind, ok := lookup.Category(t.CategoryID); ok {
			category = ind.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(t.ID),
			truncate(t.Title, 40),
			t.Status,
			t.Difficulty,
			category,
			t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Fprintf(out, "\nShowing %d of %d tasks\n", len(tasks), total)
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	task, err := resolveTask(args[0])
	if err != nil {
		return err
	}
	printTask(cmd.OutOrStdout(), task, query.NewLookup(board.Indicators()))
	return nil
}

func printTask(out io.Writer, task models.Task, lookup query.Lookup) {
	fmt.Fprintf(out, "ID:          %s\n", task.ID)
	fmt.Fprintf(out, "Title:       %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", task.Description)
	}
	fmt.Fprintf(out, "Status:      %s\n", task.Status)
	fmt.Fprintf(out, "Difficulty:  %s\n", task.Difficulty)
	if ind, ok := lookup.Category(task.CategoryID); ok {
		fmt.Fprintf(out, "Category:    %s (%s)\n", ind.Name, ind.ID)
	} else if task.HasCategory() {
		fmt.Fprintf(out, "Category:    %s (missing)\n", task.CategoryID)
	}
	fmt.Fprintf(out, "Created:     %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:     %s\n", task.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if task.CompletedAt != nil {
		fmt.Fprintf(out, "Completed:   %s\n", task.CompletedAt.Local().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(out, "\nHistory (%d):\n", len(task.History))
	for _, e := range query.HistoryNewestFirst(task.History) {
		fmt.Fprintf(out, "  %s  %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Describe())
	}
}

// resolveTask finds a task by ID or by a unique ID prefix.
func resolveTask(ref string) (models.Task, error) {
	if t, err := board.Task(ref); err == nil {
		return t, nil
	}
	var match []models.Task
	for _, t := range board.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t)
		}
	}
	switch len(match) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", tracker.ErrTaskNotFound, ref)
	case 1:
		return match[0], nil
	default:
		return models.Task{}, fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", ref, len(match))
	}
}

// resolveIndicatorID expands a unique indicator ID prefix. Unknown refs are
// returned unchanged for the tracker to reject.
func resolveIndicatorID(ref string) (string, error) {
	if _, err := board.Indicator(ref); err == nil {
		return ref, nil
	}
	var match []string
	for _, ind := range board.Indicators() {
		if strings.HasPrefix(ind.ID, ref) {
			match = append(match, ind.ID)
		}
	}
	switch len(match) {
	case 0:
		return ref, nil
	case 1:
		return match[0], nil
	default:
		return "", fmt.Errorf("indicator ID prefix %q is ambiguous (%d matches)", ref, len(match))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
