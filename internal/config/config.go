// Package config loads macro-meter settings from defaults, an optional
// YAML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Transport string     `yaml:"transport"`
	Host      string     `yaml:"host"`
	Port      int        `yaml:"port"`
	DBPath    string     `yaml:"db_path"`
	DishPath  string     `yaml:"dish_path"`
	LogLevel  string     `yaml:"log_level"`
	LogJSON   bool       `yaml:"log_json"`
	USDA      USDAConfig `yaml:"usda"`
}

type USDAConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	MaxAttempts int           `yaml:"max_attempts"`
	Delay       time.Duration `yaml:"delay"`
}

func Default() *Config {
	return &Config{
		Transport: "http",
		Host:      "127.0.0.1",
		Port:      8011,
		DBPath:    "macro-meter.db",
		LogLevel:  "info",
		USDA: USDAConfig{
			BaseURL:     "https://api.nal.usda.gov/fdc/v1/foods/search",
			MaxAttempts: 8,
			Delay:       time.Second,
		},
	}
}

// Load builds a Config. path may be empty; a missing file at a non-empty
// path is an error. A missing .env file is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("MACROMETER_TRANSPORT", &c.Transport)
	str("MACROMETER_HOST", &c.Host)
	str("MACROMETER_DB_PATH", &c.DBPath)
	str("MACROMETER_DISH_PATH", &c.DishPath)
	str("MACROMETER_LOG_LEVEL", &c.LogLevel)
	str("USDA_API_KEY", &c.USDA.APIKey)
	str("USDA_BASE_URL", &c.USDA.BaseURL)

	if v, ok := lookup("MACROMETER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MACROMETER_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v, ok := lookup("MACROMETER_LOG_JSON"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MACROMETER_LOG_JSON %q: %w", v, err)
		}
		c.LogJSON = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Transport != "http" {
		return fmt.Errorf("unsupported transport %q", c.Transport)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	return nil
}

// Addr is the host:port the HTTP transport listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
