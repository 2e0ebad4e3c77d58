package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/dropdex/internal/domain/entities"
)

func TestSanitizeDatasetName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "taiwan",
			expected: "taiwan",
		},
		{
			name:     "uppercase converted",
			input:    "Taiwan",
			expected: "taiwan",
		},
		{
			name:     "spaces and hyphens to underscores",
			input:    "season 2-beta",
			expected: "season_2_beta",
		},
		{
			name:     "special characters removed",
			input:    "drops@v1!",
			expected: "dropsv1",
		},
		{
			name:     "empty string returns default",
			input:    "",
			expected: "default",
		},
		{
			name:     "only non ascii returns default",
			input:    "怪物",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeDatasetName(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultSourceLocation, cfg.Source.Location)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
	assert.Equal(t, entities.DefaultHeaders.Slice(), cfg.Dataset.Headers)
	assert.Equal(t, "combined", cfg.Filter.Mode)
	assert.Equal(t, entities.DefaultLevelRanges, cfg.Filter.Ranges)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DROPDEX_SOURCE", "")
	t.Setenv("DROPDEX_FORMAT", "")
	t.Setenv("DROPDEX_LOG_LEVEL", "")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultYAMLMatchesDefault(t *testing.T) {
	t.Setenv("DROPDEX_SOURCE", "")
	t.Setenv("DROPDEX_FORMAT", "")
	t.Setenv("DROPDEX_LOG_LEVEL", "")

	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesAndEnv(t *testing.T) {
	t.Setenv("DROPDEX_SOURCE", "https://example.com/drops.csv")
	t.Setenv("DROPDEX_FORMAT", "tsv")
	t.Setenv("DROPDEX_LOG_LEVEL", "debug")

	dir := t.TempDir()
	content := `
filter:
  mode: split
  ranges:
    - {min: 1, max: 50}
source:
  timeout: 3s
`
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "split", cfg.Filter.Mode)
	assert.Equal(t, []entities.LevelRange{{Min: 1, Max: 50}}, cfg.Filter.Ranges)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "https://example.com/drops.csv", cfg.Source.Location)
	assert.Equal(t, "tsv", cfg.Source.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, entities.DefaultHeaders.Slice(), cfg.Dataset.Headers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "bad yaml",
			content: "filter: [",
			errMsg:  "parsing config file",
		},
		{
			name:    "wrong header count",
			content: "dataset:\n  headers: [a, b]\n",
			errMsg:  "dataset.headers must list 5 columns",
		},
		{
			name:    "unknown mode",
			content: "filter:\n  mode: fuzzy\n",
			errMsg:  "filter.mode",
		},
		{
			name:    "inverted range",
			content: "filter:\n  ranges:\n    - {min: 10, max: 1}\n",
			errMsg:  "filter.ranges",
		},
		{
			name:    "unknown source format",
			content: "source:\n  format: xlsx\n",
			errMsg:  `source.format: unsupported format "xlsx"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DROPDEX_FORMAT", "")
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
			require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(tt.content), 0644))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestHeaderSet(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Headers = []string{" name", "level ", "hp", "exp", "drop"}

	h, err := cfg.HeaderSet()
	require.NoError(t, err)
	assert.Equal(t, entities.Headers{"name", "level", "hp", "exp", "drop"}, h)

	cfg.Dataset.Headers = nil
	h, err = cfg.HeaderSet()
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultHeaders, h)
}

func TestSnapshotPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/home/user/project", ".dropdex", "snapshots.db"), cfg.SnapshotPath("/home/user/project"))

	cfg.Snapshot.Path = "/var/lib/dropdex.db"
	assert.Equal(t, "/var/lib/dropdex.db", cfg.SnapshotPath("/home/user/project"))
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	err := WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Setenv("DROPDEX_SOURCE", "")
	t.Setenv("DROPDEX_FORMAT", "")
	t.Setenv("DROPDEX_LOG_LEVEL", "")

	dir := t.TempDir()
	cfg := Default()
	cfg.Filter.Mode = "split"
	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigDir(t *testing.T) {
	assert.Equal(t, "/home/user/project/.dropdex", ConfigDir("/home/user/project"))
}

func TestConfigFilePath(t *testing.T) {
	assert.Equal(t, "/home/user/project/.dropdex/config.yaml", ConfigFilePath("/home/user/project"))
}
