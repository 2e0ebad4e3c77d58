package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/dropdex/internal/infrastructure/parsers"
	"github.com/ersonp/dropdex/internal/infrastructure/sources"
)

// SnapshotScheme prefixes locations that load a saved snapshot instead of a file.
const SnapshotScheme = "snapshot:"

// maxListedDatasets caps the names shown in a "not found" error.
const maxListedDatasets = 5

// DatasetsConfig holds named drop table locations (read/write).
type DatasetsConfig struct {
	Datasets map[string]DatasetEntry `yaml:"datasets,omitempty"`
}

// DatasetEntry names one drop table: a file, an http(s) URL, or a snapshot
// ("snapshot:" alone means the latest one).
type DatasetEntry struct {
	Location string `yaml:"location"`
	// Format forces "csv" or "tsv"; empty picks by extension.
	Format      string `yaml:"format,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// IsSnapshot reports whether the entry loads from the snapshot store.
func (e DatasetEntry) IsSnapshot() bool {
	return strings.HasPrefix(e.Location, SnapshotScheme)
}

// Validate checks that a load could make sense of the entry. Files and URLs
// are not opened; only their shape is checked.
func (e DatasetEntry) Validate() error {
	if strings.TrimSpace(e.Location) == "" {
		return errors.New("location is required")
	}
	if strings.ContainsAny(e.Location, "\r\n") {
		return fmt.Errorf("location %q spans lines", e.Location)
	}

	if e.IsSnapshot() {
		if e.Format != "" {
			return errors.New("format does not apply to snapshot locations")
		}
		return nil
	}

	if sources.IsRemote(e.Location) {
		u, err := url.Parse(e.Location)
		if err != nil {
			return fmt.Errorf("location: %w", err)
		}
		if u.Host == "" {
			return fmt.Errorf("location %q has no host", e.Location)
		}
	}

	if _, err := parsers.ForSource(e.Location, e.Format); err != nil {
		return err
	}
	return nil
}

// LoadDatasets loads dataset definitions from the .dropdex directory.
// Every entry is validated; a broken entry fails the load with its name.
func LoadDatasets(basePath string) (*DatasetsConfig, error) {
	cfg := &DatasetsConfig{Datasets: make(map[string]DatasetEntry)}

	data, err := os.ReadFile(DatasetsFilePath(basePath))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading datasets file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing datasets file: %w", err)
	}
	if cfg.Datasets == nil {
		cfg.Datasets = make(map[string]DatasetEntry)
	}

	for _, name := range cfg.Names() {
		if err := cfg.Datasets[name].Validate(); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
	}

	return cfg, nil
}

// Save writes the dataset definitions to the datasets file.
func (d *DatasetsConfig) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling datasets config: %w", err)
	}

	if err := os.WriteFile(DatasetsFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing datasets file: %w", err)
	}

	return nil
}

// Add validates entry and stores it under the sanitized name, which it returns.
func (d *DatasetsConfig) Add(name string, entry DatasetEntry) (string, error) {
	key := SanitizeDatasetName(name)
	if key == "" {
		return "", fmt.Errorf("dataset name %q has no usable characters (use a-z, 0-9, _)", name)
	}

	entry.Location = strings.TrimSpace(entry.Location)
	entry.Format = strings.ToLower(strings.TrimSpace(entry.Format))
	if err := entry.Validate(); err != nil {
		return "", fmt.Errorf("dataset %q: %w", key, err)
	}

	if d.Datasets == nil {
		d.Datasets = make(map[string]DatasetEntry)
	}
	d.Datasets[key] = entry
	return key, nil
}

// Remove removes a dataset from the configuration.
func (d *DatasetsConfig) Remove(name string) {
	delete(d.Datasets, SanitizeDatasetName(name))
}

// Names returns the dataset names in sorted order.
func (d *DatasetsConfig) Names() []string {
	return slices.Sorted(maps.Keys(d.Datasets))
}

// Get returns the dataset registered under name.
func (d *DatasetsConfig) Get(name string) (*DatasetEntry, error) {
	if len(d.Datasets) == 0 {
		return nil, errors.New("no datasets configured (add one with 'dropdex datasets add')")
	}

	entry, ok := d.Datasets[SanitizeDatasetName(name)]
	if !ok {
		names := d.Names()
		listed := strings.Join(names[:min(len(names), maxListedDatasets)], ", ")
		if len(names) > maxListedDatasets {
			listed += ", ..."
		}
		return nil, fmt.Errorf("dataset %q not found (available: %s)", name, listed)
	}

	return &entry, nil
}

// Exists checks if a dataset exists in the configuration.
func (d *DatasetsConfig) Exists(name string) bool {
	_, ok := d.Datasets[SanitizeDatasetName(name)]
	return ok
}
