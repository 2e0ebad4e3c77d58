package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDatasets_Missing(t *testing.T) {
	cfg, err := LoadDatasets(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, cfg.Datasets)
	assert.Empty(t, cfg.Datasets)
}

func TestDatasets_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadDatasets(dir)
	require.NoError(t, err)

	key, err := cfg.Add("TW Server", DatasetEntry{Location: " tw.csv ", Description: "Taiwan drops"})
	require.NoError(t, err)
	assert.Equal(t, "tw_server", key)
	_, err = cfg.Add("global", DatasetEntry{Location: "https://example.com/global", Format: "TSV"})
	require.NoError(t, err)
	require.NoError(t, cfg.Save(dir))

	loaded, err := LoadDatasets(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"global", "tw_server"}, loaded.Names())

	entry, err := loaded.Get("tw-server")
	require.NoError(t, err)
	assert.Equal(t, "tw.csv", entry.Location)
	assert.True(t, loaded.Exists("TW Server"))
	assert.Equal(t, "tsv", loaded.Datasets["global"].Format)

	loaded.Remove("global")
	assert.False(t, loaded.Exists("global"))
}

func TestDatasets_GetErrors(t *testing.T) {
	empty := &DatasetsConfig{}
	_, err := empty.Get("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no datasets configured")

	cfg := &DatasetsConfig{}
	_, err = cfg.Add("alpha", DatasetEntry{Location: "a.csv"})
	require.NoError(t, err)
	_, err = cfg.Get("beta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dataset "beta" not found (available: alpha)`)

	for _, name := range []string{"b", "c", "d", "e", "f"} {
		_, err = cfg.Add(name, DatasetEntry{Location: name + ".csv"})
		require.NoError(t, err)
	}
	_, err = cfg.Get("zeta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(available: alpha, b, c, d, e, ...)")
}

func TestDatasetEntry_Validate(t *testing.T) {
	tests := []struct {
		name   string
		entry  DatasetEntry
		errMsg string
	}{
		{name: "local file", entry: DatasetEntry{Location: "drops.csv"}},
		{name: "url with format", entry: DatasetEntry{Location: "https://example.com/export?id=7", Format: "tsv"}},
		{name: "latest snapshot", entry: DatasetEntry{Location: "snapshot:latest"}},
		{name: "bare snapshot scheme", entry: DatasetEntry{Location: "snapshot:"}},
		{name: "empty location", entry: DatasetEntry{Location: "  "}, errMsg: "location is required"},
		{name: "multi-line location", entry: DatasetEntry{Location: "a.csv\nb.csv"}, errMsg: "spans lines"},
		{name: "url without host", entry: DatasetEntry{Location: "https:///drops.csv"}, errMsg: "has no host"},
		{name: "unknown format", entry: DatasetEntry{Location: "drops.csv", Format: "xlsx"}, errMsg: `unsupported format "xlsx"`},
		{name: "format on snapshot", entry: DatasetEntry{Location: "snapshot:abc", Format: "csv"}, errMsg: "format does not apply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDatasets_AddRejects(t *testing.T) {
	cfg := &DatasetsConfig{}

	_, err := cfg.Add("!!!", DatasetEntry{Location: "drops.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable characters")

	_, err = cfg.Add("main", DatasetEntry{Location: "drops.csv", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dataset "main"`)
	assert.False(t, cfg.Exists("main"))
}

func TestLoadDatasets_InvalidEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := "datasets:\n  broken:\n    location: drops.csv\n    format: xml\n"
	require.NoError(t, os.WriteFile(DatasetsFilePath(dir), []byte(content), 0644))

	_, err := LoadDatasets(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dataset "broken"`)
}
