package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the crawl settings and filter criteria.
type Config struct {
	Output       string  `yaml:"output"`
	MaxPages     int     `yaml:"max_pages"` // 0 follows the next-link chain to the end
	DelaySeconds float64 `yaml:"delay_seconds"`
	UserAgent    string  `yaml:"user_agent"`

	Filters struct {
		MinPrice      float64 `yaml:"min_price"`
		MaxPrice      float64 `yaml:"max_price"`
		TitleContains string  `yaml:"title_contains"`
	} `yaml:"filters"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// GetDefaultConfig returns a default configuration.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Output = "books_data.csv"
	cfg.MaxPages = 0
	cfg.DelaySeconds = 1
	cfg.Filters.MinPrice = 0
	cfg.Filters.MaxPrice = 0
	return cfg
}

// Delay returns the configured inter-request delay.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds * float64(time.Second))
}
