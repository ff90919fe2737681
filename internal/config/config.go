package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/strat/internal/core/dialect"
)

// Config represents the flat strat configuration
type Config struct {
	Version string `json:"version"`
	// DatabasePath overrides the SQLite file location.
	DatabasePath string `json:"database_path,omitempty"`
	// DefaultDatabases lists the dialects the query-plan stage renders
	// when the caller does not narrow them.
	DefaultDatabases []string `json:"default_databases,omitempty"`
	// ProposerTimeoutSeconds bounds one external generation call. Zero
	// means no timeout.
	ProposerTimeoutSeconds int `json:"proposer_timeout_seconds,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		DefaultDatabases: []string{
			dialect.PubMed,
			dialect.Scopus,
			dialect.Arxiv,
			dialect.OpenAlex,
			dialect.SemanticScholar,
			dialect.CrossRef,
		},
		ProposerTimeoutSeconds: 30,
	}
}

// LoadConfig reads .strat/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".strat", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.DefaultDatabases) == 0 {
		cfg.DefaultDatabases = Default().DefaultDatabases
	}
	return &cfg, nil
}

// LoadOrDefault reads the config from dir, falling back to defaults when
// no config file exists. A present but malformed file is still an error.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	stratDir := filepath.Join(dir, ".strat")
	if err := os.MkdirAll(stratDir, 0755); err != nil {
		return fmt.Errorf("failed to create .strat dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(stratDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
