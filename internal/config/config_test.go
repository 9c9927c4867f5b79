package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shoplist/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SHOPLIST_BACKEND", "SHOPLIST_PATH", "SHOPLIST_LOG_LEVEL", "SHOPLIST_THEME"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "list", cfg.Storage.Key)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "classic", cfg.UI.Theme)
	assert.Equal(t, model.DefaultCategories(), cfg.Categories)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
storage:
  backend: sqlite
  path: /tmp/shop.db
log:
  level: debug
ui:
  theme: neon
categories:
  - {id: 10, name: Snacks}
  - {id: 20, name: Pets}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/shop.db", cfg.Storage.Path)
	assert.Equal(t, "list", cfg.Storage.Key, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "neon", cfg.UI.Theme)
	assert.Equal(t, []model.Category{{ID: 10, Name: "Snacks"}, {ID: 20, Name: "Pets"}}, cfg.Categories)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, "Pets", cat.Name(20))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "storage: [\n"},
		{"unknown backend", "storage: {backend: redis}"},
		{"empty key", "storage: {key: \"\"}"},
		{"unknown level", "log: {level: loud}"},
		{"unknown theme", "ui: {theme: pink}"},
		{"sentinel category id", "categories: [{id: 0, name: None}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHOPLIST_BACKEND", "MEMORY")
	t.Setenv("SHOPLIST_PATH", "/var/lib/shop")
	t.Setenv("SHOPLIST_LOG_LEVEL", "error")
	t.Setenv("SHOPLIST_THEME", "mono")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/shop", cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "mono", cfg.UI.Theme)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data"
	cfg.UI.Theme = "mono"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
