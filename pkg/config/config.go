// Package config loads tool configuration from an optional YAML file
// with environment overrides, validated before use.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the shared configuration for the import, edge-building and
// export tools.
type Config struct {
	// DatabaseURL is the postgres connection string. Empty means no
	// database: the importer then runs dry, printing TSV to stdout.
	DatabaseURL string `yaml:"database_url" validate:"omitempty,uri"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// EventsAddr, when set, is the mangos listen address for pipeline
	// completion events, e.g. "tcp://127.0.0.1:40899".
	EventsAddr string `yaml:"events_addr" validate:"omitempty,uri"`

	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig configures the export-geojson tool.
type SnapshotConfig struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Compress bool   `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Load reads configuration: defaults, then the YAML file at path (if
// path is non-empty), then INFRAGRAPH_* environment overrides, then
// validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv loads configuration without a file, honoring
// INFRAGRAPH_CONFIG as an optional file path.
func FromEnv() (*Config, error) {
	return Load(os.Getenv("INFRAGRAPH_CONFIG"))
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("INFRAGRAPH_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("INFRAGRAPH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("INFRAGRAPH_EVENTS_ADDR"); v != "" {
		cfg.EventsAddr = v
	}
	if v := os.Getenv("INFRAGRAPH_SNAPSHOT_BUCKET"); v != "" {
		cfg.Snapshot.Bucket = v
	}
}

// SlogLevel maps the configured level to slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the JSON logger the cmds share.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: c.SlogLevel(),
	}))
}
