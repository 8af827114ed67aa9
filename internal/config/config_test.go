package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sykell/page-analyzer/internal/db"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBodyBytes)
	assert.False(t, cfg.Logging.Development)

	crawlerCfg := cfg.Crawler()
	assert.Equal(t, cfg.Fetch.UserAgent, crawlerCfg.UserAgent)
	assert.Equal(t, "pages.db", cfg.Database().Path)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PAGES_SERVER_PORT", "9090")
	t.Setenv("PAGES_DB_DRIVER", "mysql")
	t.Setenv("PAGES_DB_HOST", "mysql.internal")
	t.Setenv("PAGES_FETCH_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, db.DriverMySQL, cfg.Database().Driver)
	assert.Equal(t, "mysql.internal", cfg.Database().Host)
	assert.Equal(t, 3*time.Second, cfg.Crawler().Timeout)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 7070
  mode: debug
db:
  driver: sqlite
  path: /var/lib/pages.db
logging:
  development: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "/var/lib/pages.db", cfg.DB.Path)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	valid, err := Load("")
	require.NoError(t, err)

	tests := map[string]func(*Config){
		"port":     func(c *Config) { c.Server.Port = 0 },
		"mode":     func(c *Config) { c.Server.Mode = "loud" },
		"shutdown": func(c *Config) { c.Server.ShutdownTimeout = 0 },
		"driver":   func(c *Config) { c.DB.Driver = "postgres" },
		"path":     func(c *Config) { c.DB.Path = "" },
		"mysql":    func(c *Config) { c.DB.Driver = db.DriverMySQL; c.DB.Host = "" },
		"timeout":  func(c *Config) { c.Fetch.Timeout = 0 },
		"body":     func(c *Config) { c.Fetch.MaxBodyBytes = -1 },
	}

	for name, mutate := range tests {
		cfg := valid
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
