package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Run modes. Cold resets the backend's benchmark namespace before measuring;
// warm reuses whatever state a prior run left behind.
const (
	ModeCold = "cold"
	ModeWarm = "warm"
)

// Config is assembled once at process start and passed by value into the
// runner and adapter constructors. Core logic never reads the environment.
type Config struct {
	Backend     string `yaml:"backend"`
	Mode        string `yaml:"mode"`
	DatasetSize int    `yaml:"dataset_size"`
	Repeats     int    `yaml:"repeats"`
	// Subset limits how many records each phase pass touches. 0 means all.
	Subset     int    `yaml:"subset"`
	ResultsDir string `yaml:"results_dir"`

	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DSN renders the go-sql-driver connection string. clientFoundRows makes
// RowsAffected count matched rows, so an update that rewrites identical
// values is not mistaken for a missing record.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Default returns the baseline configuration before file, environment, and
// flag values are layered on top.
func Default() Config {
	return Config{
		Backend:     "sqlite",
		Mode:        ModeCold,
		DatasetSize: 100,
		Repeats:     5,
		ResultsDir:  "results",
		SQLite:      SQLiteConfig{Path: "benchmark.db"},
		MySQL:       MySQLConfig{Host: "localhost", Port: 3306},
		Mongo:       MongoConfig{URI: "mongodb://localhost:27017/", Database: "benchmark"},
		Redis:       RedisConfig{Host: "localhost", Port: 6379, KeyPrefix: "record:"},
	}
}

// Load reads an optional YAML file over the defaults, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers the environment variables over cfg. Variable names match
// the .env keys the benchmark has always used.
func (c *Config) applyEnv() error {
	setString(&c.Backend, "DB_TYPE")
	setString(&c.Mode, "RUN_MODE")
	setString(&c.ResultsDir, "RESULTS_DIR")
	if err := setInt(&c.DatasetSize, "DATASET_SIZE"); err != nil {
		return err
	}
	if err := setInt(&c.Repeats, "REPEATS"); err != nil {
		return err
	}
	if err := setInt(&c.Subset, "SUBSET"); err != nil {
		return err
	}

	setString(&c.SQLite.Path, "SQLITE_PATH")

	setString(&c.MySQL.Host, "MYSQL_HOST")
	setString(&c.MySQL.User, "MYSQL_USER")
	setString(&c.MySQL.Password, "MYSQL_PASSWORD")
	setString(&c.MySQL.Database, "MYSQL_DATABASE")
	if err := setInt(&c.MySQL.Port, "MYSQL_PORT"); err != nil {
		return err
	}

	setString(&c.Postgres.DSN, "POSTGRES_DSN")

	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DATABASE")

	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&c.Redis.Port, "REDIS_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

// Validate fails fast on bad run parameters and on missing backend-specific
// settings, before any connection attempt.
func (c *Config) Validate() error {
	if c.Mode != ModeCold && c.Mode != ModeWarm {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeCold, ModeWarm, c.Mode)
	}
	if c.DatasetSize <= 0 {
		return fmt.Errorf("dataset_size must be positive, got %d", c.DatasetSize)
	}
	if c.Repeats <= 0 {
		return fmt.Errorf("repeats must be positive, got %d", c.Repeats)
	}
	if c.Subset < 0 {
		return fmt.Errorf("subset must not be negative, got %d", c.Subset)
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir is required")
	}

	switch c.Backend {
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required")
		}
	case "mysql":
		if c.MySQL.Host == "" {
			return fmt.Errorf("mysql.host is required")
		}
		if c.MySQL.User == "" {
			return fmt.Errorf("mysql.user is required")
		}
		if c.MySQL.Database == "" {
			return fmt.Errorf("mysql.database is required")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required")
		}
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("redis.host is required")
		}
		if c.Redis.KeyPrefix == "" {
			return fmt.Errorf("redis.key_prefix is required")
		}
	default:
		return fmt.Errorf("unsupported backend: %q", c.Backend)
	}
	return nil
}
