// Package config loads taskboard settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds taskboard configuration.
type Config struct {
	// DBPath is the SQLite database holding both collections.
	DBPath string `yaml:"db_path"`
	// Log configures the zap logger.
	Log LogConfig `yaml:"log"`
	// View is the initial task view.
	View ViewConfig `yaml:"view"`
}

// LogConfig selects log level, encoding and destination.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
	// File receives log output. Empty means stderr.
	File string `yaml:"file,omitempty"`
}

// ViewConfig is the default ordering of task lists.
type ViewConfig struct {
	// SortBy is created, updated or title.
	SortBy string `yaml:"sort_by"`
	// Order is asc or desc.
	Order string `yaml:"order"`
}

// Env holds environment overrides. Unset variables leave the file value.
type Env struct {
	DBPath    string `envconfig:"DB_PATH"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
	LogFile   string `envconfig:"LOG_FILE"`
}

const namespace = "TASKBOARD"

// Dir returns ~/.taskboard, or .taskboard if the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskboard"
	}
	return filepath.Join(home, ".taskboard")
}

// DefaultPath is the config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath: filepath.Join(Dir(), "taskboard.db"),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		View: ViewConfig{
			SortBy: "created",
			Order:  "desc",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path (DefaultPath when empty) and applies
// TASKBOARD_* environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(env Env) {
	if env.DBPath != "" {
		c.DBPath = env.DBPath
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Log.Format = env.LogFormat
	}
	if env.LogFile != "" {
		c.Log.File = env.LogFile
	}
}

// SaveConfig saves configuration to a YAML file, creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q, must be: debug, info, warn, or error", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format %q, must be: json or console", c.Log.Format)
	}

	validSorts := map[string]bool{"created": true, "updated": true, "title": true}
	if !validSorts[c.View.SortBy] {
		return fmt.Errorf("invalid sort_by %q, must be: created, updated, or title", c.View.SortBy)
	}
	if c.View.Order != "asc" && c.View.Order != "desc" {
		return fmt.Errorf("invalid order %q, must be: asc or desc", c.View.Order)
	}

	return nil
}
