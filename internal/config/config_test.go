package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, ModeCold, cfg.Mode)
	assert.Equal(t, 100, cfg.DatasetSize)
	assert.Equal(t, 5, cfg.Repeats)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: mongo
mode: warm
dataset_size: 250
mongo:
  uri: mongodb://db.example:27017/
  database: benchdb
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Backend)
	assert.Equal(t, ModeWarm, cfg.Mode)
	assert.Equal(t, 250, cfg.DatasetSize)
	assert.Equal(t, "mongodb://db.example:27017/", cfg.Mongo.URI)
	assert.Equal(t, "benchdb", cfg.Mongo.Database)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\ndataset_size: 10\n"), 0o644))

	t.Setenv("DB_TYPE", "redis")
	t.Setenv("DATASET_SIZE", "42")
	t.Setenv("REDIS_HOST", "cache.example")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, 42, cfg.DatasetSize)
	assert.Equal(t, "cache.example:6380", cfg.Redis.Addr())
}

func TestEnvBadInteger(t *testing.T) {
	t.Setenv("REPEATS", "lots")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPEATS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad mode", func(c *Config) { c.Mode = "hot" }, "mode"},
		{"zero size", func(c *Config) { c.DatasetSize = 0 }, "dataset_size"},
		{"negative repeats", func(c *Config) { c.Repeats = -1 }, "repeats"},
		{"negative subset", func(c *Config) { c.Subset = -5 }, "subset"},
		{"no results dir", func(c *Config) { c.ResultsDir = "" }, "results_dir"},
		{"unknown backend", func(c *Config) { c.Backend = "oracle" }, "unsupported backend"},
		{"sqlite no path", func(c *Config) { c.SQLite.Path = "" }, "sqlite.path"},
		{"mysql no user", func(c *Config) {
			c.Backend = "mysql"
			c.MySQL.Database = "bench"
		}, "mysql.user"},
		{"postgres no dsn", func(c *Config) { c.Backend = "postgres" }, "postgres.dsn"},
		{"mongo no database", func(c *Config) {
			c.Backend = "mongo"
			c.Mongo.Database = ""
		}, "mongo.database"},
		{"redis no prefix", func(c *Config) {
			c.Backend = "redis"
			c.Redis.KeyPrefix = ""
		}, "redis.key_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	m := MySQLConfig{Host: "db.example", Port: 3307, User: "bench", Password: "secret", Database: "benchdb"}
	assert.Equal(t,
		"bench:secret@tcp(db.example:3307)/benchdb?parseTime=true&clientFoundRows=true",
		m.DSN())
}
