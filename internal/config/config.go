// Package config loads .mbench/config.yaml and applies MBENCH_* environment
// overrides on top of it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/corey/mbench/internal/logging"
	"github.com/corey/mbench/internal/ports"
	"gopkg.in/yaml.v3"
)

// AllAlgorithms selects every algorithm in turn.
const AllAlgorithms = "all"

// Config holds the project defaults for matching runs and the daemon.
type Config struct {
	// Matching defaults, overridden per command by flags.
	Algorithm     string `yaml:"algorithm" env:"MBENCH_ALGORITHM"`
	CaseSensitive bool   `yaml:"case_sensitive" env:"MBENCH_CASE_SENSITIVE"`
	Workers       int    `yaml:"workers" env:"MBENCH_WORKERS"`
	Verify        bool   `yaml:"verify" env:"MBENCH_VERIFY"`

	// Daemon settings. HTTPPort 0 derives a port from the project root;
	// a negative port disables the HTTP API.
	HTTPPort      int           `yaml:"http_port" env:"MBENCH_HTTP_PORT"`
	WatchDebounce time.Duration `yaml:"watch_debounce" env:"MBENCH_WATCH_DEBOUNCE"`

	// Logging
	LogLevel  string `yaml:"log_level" env:"MBENCH_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"MBENCH_LOG_FORMAT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:     ports.NameGreedy,
		CaseSensitive: true,
		Workers:       1,
		WatchDebounce: 100 * time.Millisecond,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads the config file at path, writing the defaults there first when
// it does not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		err := loadFromFile(cfg, path)
		switch {
		case os.IsNotExist(err):
			if err := cfg.Save(path); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Algorithms expands the configured selector into concrete algorithms.
func (c *Config) Algorithms() ([]ports.Algorithm, error) {
	return ParseSelector(c.Algorithm)
}

// ParseSelector parses an algorithm name or "all".
func ParseSelector(s string) ([]ports.Algorithm, error) {
	if strings.EqualFold(strings.TrimSpace(s), AllAlgorithms) {
		return ports.Algorithms(), nil
	}
	alg, err := ports.ParseAlgorithm(s)
	if err != nil {
		return nil, err
	}
	return []ports.Algorithm{alg}, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := c.Algorithms(); err != nil {
		return fmt.Errorf("algorithm: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.HTTPPort > 65535 {
		return fmt.Errorf("http_port out of range: %d", c.HTTPPort)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must be non-negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("MBENCH_ALGORITHM"); v != "" {
		cfg.Algorithm = v
	}
	if v := os.Getenv("MBENCH_CASE_SENSITIVE"); v != "" {
		b, err := parseBool("MBENCH_CASE_SENSITIVE", v)
		if err != nil {
			return err
		}
		cfg.CaseSensitive = b
	}
	if v := os.Getenv("MBENCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MBENCH_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("MBENCH_VERIFY"); v != "" {
		b, err := parseBool("MBENCH_VERIFY", v)
		if err != nil {
			return err
		}
		cfg.Verify = b
	}
	if v := os.Getenv("MBENCH_HTTP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MBENCH_HTTP_PORT: %w", err)
		}
		cfg.HTTPPort = n
	}
	if v := os.Getenv("MBENCH_WATCH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MBENCH_WATCH_DEBOUNCE: %w", err)
		}
		cfg.WatchDebounce = d
	}
	if v := os.Getenv("MBENCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MBENCH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

func parseBool(name, v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s value: %q (use true/false)", name, v)
}
