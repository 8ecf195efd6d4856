package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/fentz26/taskboard/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskboard.log")

	log, err := New(config.LogConfig{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Debug("hidden")
	log.Info("task created", zap.String("task_id", "t1"))
	_ = Sync(log)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line at info level, got %d: %s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["msg"] != "task created" || entry["task_id"] != "t1" || entry["level"] != "info" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNewConsoleDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	log, err := New(config.LogConfig{Level: "debug", Format: "console", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Debug("indicator deleted")
	_ = Sync(log)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "indicator deleted") {
		t.Errorf("Expected debug line in console output, got %q", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestSyncNil(t *testing.T) {
	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) returned %v", err)
	}
}
