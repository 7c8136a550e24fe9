// Package config loads switchsim settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bcspragu/SwitchingAnalyzer/sim"
	"github.com/bcspragu/SwitchingAnalyzer/telemetry"
)

// Config is the full set of switchsim settings.
type Config struct {
	// Patterns is the number of random samples simulated per signal.
	Patterns int `yaml:"patterns"`

	// Seed seeds the random word source.
	Seed uint64 `yaml:"seed"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MaxWords caps the simulation storage of one pass, in 32-bit words.
	MaxWords int64 `yaml:"max_words"`

	Cache     CacheConfig     `yaml:"cache"`
	Batch     BatchConfig     `yaml:"batch"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CacheConfig controls the on-disk table cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BatchConfig controls concurrent estimation of many circuits.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// TelemetryConfig picks the OpenTelemetry exporters, "none" or "stdout".
// Stdout output goes to the standard error stream.
type TelemetryConfig struct {
	Traces  string `yaml:"traces"`
	Metrics string `yaml:"metrics"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Patterns: 4096,
		Seed:     sim.DefaultSeed,
		LogLevel: "info",
		MaxWords: sim.DefaultMaxWords,
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(".switchsim", "cache"),
		},
		Batch: BatchConfig{Workers: 4},
		Telemetry: TelemetryConfig{
			Traces:  telemetry.ExporterNone,
			Metrics: telemetry.ExporterNone,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Patterns <= 0:
		return fmt.Errorf("patterns must be positive, got %d", c.Patterns)
	case c.MaxWords <= 0:
		return fmt.Errorf("max_words must be positive, got %d", c.MaxWords)
	case c.Batch.Workers <= 0:
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	case c.Cache.Enabled && c.Cache.Path == "":
		return errors.New("cache.path is required when the cache is enabled")
	case !telemetry.ValidExporter(c.Telemetry.Traces):
		return fmt.Errorf("telemetry.traces must be none or stdout, got %q", c.Telemetry.Traces)
	case !telemetry.ValidExporter(c.Telemetry.Metrics):
		return fmt.Errorf("telemetry.metrics must be none or stdout, got %q", c.Telemetry.Metrics)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
