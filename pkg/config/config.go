package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all library wiring configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	LogLevel string         `yaml:"log_level"`
}

// DatabaseConfig holds the SQL backend settings for pattern-match aspects.
type DatabaseConfig struct {
	Driver   string        `yaml:"driver"` // "postgres" or "sqlite3"
	URL      string        `yaml:"url"`
	MaxConns int           `yaml:"max_conns"`
	MinConns int           `yaml:"min_conns"`
	Timeout  time.Duration `yaml:"timeout"`
}

// IndexConfig holds the external search-index settings for delegated
// aspects.
type IndexConfig struct {
	RedisURL  string `yaml:"redis_url"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	IndexName string `yaml:"index_name"`
	PageSize  int    `yaml:"page_size"`
}

// SearchConfig holds aspect defaults.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
}

// DefaultConfig returns the baseline configuration before file and
// environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			MaxConns: 25,
			MinConns: 5,
			Timeout:  10 * time.Second,
		},
		Index: IndexConfig{
			DB:       -1,
			PageSize: 1000,
		},
		Search: SearchConfig{
			DefaultLimit: 0, // unbounded
		},
		LogLevel: "info",
	}
}

// LoadConfig builds configuration from defaults, an optional YAML file named
// by QUILL_CONFIG_FILE, and environment variable overrides, in that order.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := getEnv("QUILL_CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() {
	if driver := getEnv("QUILL_DB_DRIVER", ""); driver != "" {
		c.Database.Driver = driver
	}
	if url := getEnv("QUILL_DB_URL", ""); url != "" {
		c.Database.URL = url
	}
	if maxConns := getEnvInt("QUILL_DB_MAX_CONNS", 0); maxConns > 0 {
		c.Database.MaxConns = maxConns
	}
	if minConns := getEnvInt("QUILL_DB_MIN_CONNS", 0); minConns > 0 {
		c.Database.MinConns = minConns
	}
	if timeout := getEnvDuration("QUILL_DB_TIMEOUT", 0); timeout > 0 {
		c.Database.Timeout = timeout
	}

	if redisURL := getEnv("QUILL_INDEX_REDIS_URL", ""); redisURL != "" {
		c.Index.RedisURL = redisURL
	}
	if password := getEnv("QUILL_INDEX_PASSWORD", ""); password != "" {
		c.Index.Password = password
	}
	if name := getEnv("QUILL_INDEX_NAME", ""); name != "" {
		c.Index.IndexName = name
	}
	if pageSize := getEnvInt("QUILL_INDEX_PAGE_SIZE", 0); pageSize > 0 {
		c.Index.PageSize = pageSize
	}

	if limit := getEnvInt("QUILL_SEARCH_DEFAULT_LIMIT", 0); limit > 0 {
		c.Search.DefaultLimit = limit
	}
	if level := getEnv("QUILL_LOG_LEVEL", ""); level != "" {
		c.LogLevel = level
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3", "":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.MaxConns > 0 && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Search.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must not be negative")
	}
	if c.Index.PageSize < 0 {
		return fmt.Errorf("index page_size must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
