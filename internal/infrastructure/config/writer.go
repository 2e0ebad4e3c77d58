package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# dropdex configuration

source:
  location: data.csv
  timeout: 10s
  # format: tsv (csv or tsv; default picks by extension, or set DROPDEX_FORMAT)
  # location: https://example.com/data.csv (or set DROPDEX_SOURCE env var)

dataset:
  headers: [怪物名稱, 等級, 生命值, 基礎經驗, 掉落物品]

filter:
  # combined: one query matches the monster name OR any drop
  # split: a name query AND a drop query, each against its own field
  mode: combined
  ranges:
    - {label: "Lv. 1-10", min: 1, max: 10}
    - {label: "Lv. 11-20", min: 11, max: 20}
    - {label: "Lv. 21-30", min: 21, max: 30}
    - {label: "Lv. 31-40", min: 31, max: 40}
    - {label: "Lv. 41-50", min: 41, max: 50}
    - {label: "Lv. 51-60", min: 51, max: 60}
    - {label: "Lv. 61-70", min: 61, max: 70}
    - {label: "Lv. 71-80", min: 71, max: 80}
    - {label: "Lv. 81+", min: 81, max: 999}

snapshot:
  path: snapshots.db

log:
  level: info
`

// WriteDefault creates the .dropdex directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
