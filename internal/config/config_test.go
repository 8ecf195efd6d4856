package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if !strings.HasSuffix(cfg.DBPath, "taskboard.db") {
		t.Errorf("Unexpected default db path: %s", cfg.DBPath)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.View.SortBy != "created" || cfg.View.Order != "desc" {
		t.Errorf("Expected default view, got %+v", cfg.View)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "db_path: /tmp/board.db\nview:\n  sort_by: title\n  order: asc\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DBPath != "/tmp/board.db" {
		t.Errorf("Expected db path from file, got %s", cfg.DBPath)
	}
	if cfg.View.SortBy != "title" || cfg.View.Order != "asc" {
		t.Errorf("Expected view from file, got %+v", cfg.View)
	}
	// Unset keys keep defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level, got %s", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "view: [unclosed"},
		{"bad level", "log:\n  level: verbose\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"bad sort", "view:\n  sort_by: priority\n"},
		{"bad order", "view:\n  order: sideways\n"},
		{"empty db path", "db_path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadAppliesEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: /from/file.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKBOARD_DB_PATH", "/from/env.db")
	t.Setenv("TASKBOARD_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/from/env.db" {
		t.Errorf("Expected env db path, got %s", cfg.DBPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected env log level, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Expected file/default log format, got %s", cfg.Log.Format)
	}

	t.Setenv("TASKBOARD_LOG_FORMAT", "yaml")
	if _, err := Load(path); err == nil {
		t.Error("Expected invalid env override to fail")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.DBPath = "/data/board.db"
	cfg.Log.File = "/var/log/taskboard.log"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, cfg)
	}

	if err := SaveConfig(path, nil); err == nil {
		t.Error("Expected error saving nil config")
	}
}
