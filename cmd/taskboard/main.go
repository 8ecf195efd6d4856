package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/taskboard/internal/config"
	"github.com/fentz26/taskboard/internal/logger"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/store"
	"github.com/fentz26/taskboard/internal/tracker"
	"github.com/fentz26/taskboard/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Taskboard - personal task tracker",
	Long: `Taskboard tracks tasks with a difficulty, a workflow status and an optional
category. Every change is recorded in the task's history.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	cfgPath  string
	dbFlag   string
	logLevel string
)

// Process-wide state opened by setup and released by shutdown.
var (
	cfg     *config.Config
	log     *zap.Logger
	db      *store.Store
	board   *tracker.Tracker
	notices *tui.NoticeSink
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(indicatorCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads config, opens the database and restores the board.
func setup(cmd *cobra.Command, args []string) error {
	skipCommands := map[string]bool{
		"version":    true,
		"help":       true,
		"completion": true,
	}
	if skipCommands[cmd.Name()] || cmd.Parent() == configCmd {
		return nil
	}

	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbFlag
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = logLevel
	}

	interactive := cmd == tuiCmd
	// Log lines would tear the alternate screen.
	if interactive && c.Log.File == "" {
		c.Log.File = filepath.Join(config.Dir(), "taskboard.log")
	}

	l, err := logger.New(c.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	s, err := store.New(c.DBPath)
	if err != nil {
		_ = logger.Sync(l)
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := s.Ping(cmd.Context()); err != nil {
		s.Close()
		_ = logger.Sync(l)
		return fmt.Errorf("database not reachable at %s: %w", c.DBPath, err)
	}

	var notifier tracker.Notifier = tracker.NotifierFunc(printNotice)
	if interactive {
		notices = &tui.NoticeSink{}
		notifier = notices
	}

	cfg, log, db = c, l, s
	board = tracker.New(s, tracker.Options{Notifier: notifier, Logger: l})
	board.Load()
	log.Debug("database opened", zap.String("path", c.DBPath))
	return nil
}

// shutdown releases what setup opened. Safe to call more than once.
func shutdown() {
	if db != nil {
		if err := db.Close(); err != nil && log != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
		db = nil
	}
	if log != nil {
		_ = logger.Sync(log)
		log = nil
	}
	board, cfg, notices = nil, nil, nil
}

func printNotice(n tracker.Notice) {
	c := color.New(color.FgYellow)
	if n.Level == tracker.LevelError {
		c = color.New(color.FgRed)
	}
	c.Fprintf(os.Stderr, "%s: %s\n", n.Level, n)
}

// viewDefaults is the configured initial task view.
func viewDefaults() query.Options {
	o := query.DefaultOptions()
	if cfg == nil {
		return o
	}
	if by, ok := query.ParseSortKey(cfg.View.SortBy); ok {
		o.SortBy = by
	}
	if order, ok := query.ParseOrder(cfg.View.Order); ok {
		o.Order = order
	}
	return o
}

func main() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
