package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvDatabaseURL names the variable holding the connection string.
	EnvDatabaseURL = "DATABASE_URL"
	// EnvConfigPath names the variable holding an optional YAML config path.
	EnvConfigPath = "ADSWATCH_CONFIG"

	DefaultDatabaseURL = "postgres://postgres@localhost:5432/postgres"
	DefaultTreeID      = "default"
	DefaultRecentLimit = 3
	DefaultTimeout     = 5 * time.Second

	maxRecentLimit = 100
)

type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Inspect InspectConfig `yaml:"inspect"`
}

type SourceConfig struct {
	URL string `yaml:"url"`
}

type InspectConfig struct {
	TreeID      string        `yaml:"treeId"`
	RecentLimit int           `yaml:"recentLimit"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when neither a file nor the
// environment provide values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{URL: DefaultDatabaseURL},
		Inspect: InspectConfig{
			TreeID:      DefaultTreeID,
			RecentLimit: DefaultRecentLimit,
			Timeout:     DefaultTimeout,
		},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// at path and DATABASE_URL, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if url, ok := os.LookupEnv(EnvDatabaseURL); ok && url != "" {
		cfg.Source.URL = url
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Source.URL == "" {
		return errors.New("source.url is required")
	}
	if c.Inspect.TreeID == "" {
		return errors.New("inspect.treeId is required")
	}
	if c.Inspect.RecentLimit < 1 || c.Inspect.RecentLimit > maxRecentLimit {
		return fmt.Errorf("inspect.recentLimit must be between 1 and %d, got %d", maxRecentLimit, c.Inspect.RecentLimit)
	}
	if c.Inspect.Timeout <= 0 {
		return errors.New("inspect.timeout must be positive")
	}
	return nil
}
