// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/dropdex/internal/domain/entities"
	"github.com/ersonp/dropdex/internal/infrastructure/parsers"
)

const (
	// DefaultConfigDir is the directory name for dropdex configuration.
	DefaultConfigDir = ".dropdex"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatasetsFile is the default datasets file name.
	DefaultDatasetsFile = "datasets.yaml"
	// DefaultSnapshotFile is the default snapshot database file name.
	DefaultSnapshotFile = "snapshots.db"
	// DefaultSourceLocation is the drop table read when nothing else is configured.
	DefaultSourceLocation = "data.csv"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	Source   SourceConfig   `yaml:"source,omitempty"`
	Dataset  DatasetConfig  `yaml:"dataset,omitempty"`
	Filter   FilterConfig   `yaml:"filter,omitempty"`
	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// SourceConfig holds where the drop table is read from.
type SourceConfig struct {
	// Location is a file path, an http(s) URL, or "snapshot:<id|latest>".
	Location string        `yaml:"location,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	// Format forces "csv" or "tsv"; empty picks by file extension.
	Format string `yaml:"format,omitempty"`
}

// DatasetConfig describes the expected layout of the drop table.
type DatasetConfig struct {
	Headers []string `yaml:"headers,omitempty"`
}

// FilterConfig holds the filter mode and the level ranges offered to the user.
type FilterConfig struct {
	Mode   string                `yaml:"mode,omitempty"`
	Ranges []entities.LevelRange `yaml:"ranges,omitempty"`
}

// SnapshotConfig holds configuration for the SQLite snapshot store.
type SnapshotConfig struct {
	// Path is the file path to the SQLite database, relative to the config directory
	// unless absolute.
	Path string `yaml:"path,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
	// File receives log output instead of stderr when set.
	File string `yaml:"file,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Location: DefaultSourceLocation,
			Timeout:  10 * time.Second,
		},
		Dataset: DatasetConfig{
			Headers: entities.DefaultHeaders.Slice(),
		},
		Filter: FilterConfig{
			Mode:   "combined",
			Ranges: append([]entities.LevelRange(nil), entities.DefaultLevelRanges...),
		},
		Snapshot: SnapshotConfig{
			Path: DefaultSnapshotFile,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the .dropdex directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	// Start with defaults
	cfg := Default()

	data, err := os.ReadFile(configFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if loc := os.Getenv("DROPDEX_SOURCE"); loc != "" {
		c.Source.Location = loc
	}
	if format := os.Getenv("DROPDEX_FORMAT"); format != "" {
		c.Source.Format = format
	}
	if level := os.Getenv("DROPDEX_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate checks the configuration for values no component could use.
func (c *Config) Validate() error {
	if _, err := c.HeaderSet(); err != nil {
		return err
	}

	switch strings.ToLower(c.Filter.Mode) {
	case "", "combined", "split":
	default:
		return fmt.Errorf("filter.mode %q is not one of combined, split", c.Filter.Mode)
	}

	for _, r := range c.Filter.Ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("filter.ranges: %w", err)
		}
	}

	if _, err := parsers.ForSource(c.Source.Location, c.Source.Format); err != nil {
		return fmt.Errorf("source.format: %w", err)
	}

	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must not be negative")
	}

	return nil
}

// HeaderSet returns the configured headers as a fixed column set.
func (c *Config) HeaderSet() (entities.Headers, error) {
	if len(c.Dataset.Headers) == 0 {
		return entities.DefaultHeaders, nil
	}

	var h entities.Headers
	if len(c.Dataset.Headers) != len(h) {
		return h, fmt.Errorf("dataset.headers must list %d columns, got %d", len(h), len(c.Dataset.Headers))
	}
	for i, label := range c.Dataset.Headers {
		h[i] = strings.TrimSpace(label)
	}
	return h, nil
}

// SnapshotPath returns the absolute snapshot database path for the given base path.
func (c *Config) SnapshotPath(basePath string) string {
	if filepath.IsAbs(c.Snapshot.Path) {
		return c.Snapshot.Path
	}
	path := c.Snapshot.Path
	if path == "" {
		path = DefaultSnapshotFile
	}
	return filepath.Join(basePath, DefaultConfigDir, path)
}

// ConfigDir returns the path to the .dropdex config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// DatasetsFilePath returns the path to the datasets file.
func DatasetsFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatasetsFile)
}

// Exists checks if a dropdex config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeDatasetName converts a dataset name to a stable identifier.
func SanitizeDatasetName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}
