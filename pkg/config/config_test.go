package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.Equal(t, 1000, cfg.Index.PageSize)
	assert.Equal(t, 0, cfg.Search.DefaultLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("QUILL_DB_DRIVER", "sqlite3")
	t.Setenv("QUILL_DB_URL", "file:test.db")
	t.Setenv("QUILL_DB_TIMEOUT", "30s")
	t.Setenv("QUILL_INDEX_NAME", "books-idx")
	t.Setenv("QUILL_SEARCH_DEFAULT_LIMIT", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.URL)
	assert.Equal(t, 30*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "books-idx", cfg.Index.IndexName)
	assert.Equal(t, 50, cfg.Search.DefaultLimit)
}

func TestLoadConfigYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.yaml")
	content := `
database:
  driver: sqlite3
  url: "file:library.db"
index:
  redis_url: "redis://localhost:6379"
  index_name: articles-idx
search:
  default_limit: 25
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("QUILL_CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "file:library.db", cfg.Database.URL)
	assert.Equal(t, "articles-idx", cfg.Index.IndexName)
	assert.Equal(t, 25, cfg.Search.DefaultLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))
	t.Setenv("QUILL_CONFIG_FILE", path)
	t.Setenv("QUILL_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedConnBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.MinConns = 50
	cfg.Database.MaxConns = 10
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("QUILL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)
}
