package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devlens-ai/devlens/pkg/models"
)

// Config holds all devlens configuration.
type Config struct {
	Store   StoreConfig       `yaml:"store"`
	Cache   CacheConfig       `yaml:"cache"`
	History HistoryConfig     `yaml:"history"`
	Report  models.Thresholds `yaml:"report"`
}

// StoreConfig selects and locates the durable substrate.
// Backend is "sqlite" (default) or "file".
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// CacheConfig controls the in-memory memoization cache.
type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// HistoryConfig bounds the durable history lists.
type HistoryConfig struct {
	GenerationLimit int `yaml:"generation_limit"`
	AnalysisLimit   int `yaml:"analysis_limit"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "devlens.db",
		},
		Cache: CacheConfig{
			DefaultTTL: 5 * time.Minute,
		},
		History: HistoryConfig{
			GenerationLimit: 50,
			AnalysisLimit:   20,
		},
		Report: models.DefaultThresholds(),
	}
}

// Load reads a YAML config file and expands environment variables.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Store.Backend != "sqlite" && cfg.Store.Backend != "file" {
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}
