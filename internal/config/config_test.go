package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "UTC", cfg.User.Timezone)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alfred.toml")
	content := `
[model]
provider = "mock"
model = "test-model"

[server]
addr = ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Model.Provider)
	assert.Equal(t, "test-model", cfg.Model.Model)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 120, cfg.Model.TimeoutSeconds, "unset fields keep defaults")
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "alfred.toml")

	cfg := Default()
	cfg.User.Name = "Alice"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.User.Name)
}

func TestLoadExpandsTilde(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alfred.toml")
	content := `
[paths]
data_dir = "~/alfred-data"
database = "~/alfred-data/alfred.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "alfred-data"), cfg.Paths.DataDir)
}
