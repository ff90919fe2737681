package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Version:                "1",
		DefaultDatabases:       []string{"pubmed", "scopus"},
		ProposerTimeoutSeconds: 10,
	}

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(loaded.DefaultDatabases) != 2 || loaded.DefaultDatabases[0] != "pubmed" {
		t.Errorf("databases = %v", loaded.DefaultDatabases)
	}
	if loaded.ProposerTimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want 10", loaded.ProposerTimeoutSeconds)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if len(cfg.DefaultDatabases) != 6 {
		t.Errorf("default databases = %v, want all six dialects", cfg.DefaultDatabases)
	}
	if cfg.ProposerTimeoutSeconds == 0 {
		t.Error("expected a default proposer timeout")
	}
}

func TestLoadOrDefaultMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".strat"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".strat", "config.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(dir); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestLoadConfigFillsDefaultDatabases(t *testing.T) {
	dir := t.TempDir()
	if err := SaveConfig(dir, &Config{Version: "1"}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(loaded.DefaultDatabases) != 6 {
		t.Errorf("databases = %v, want all six dialects", loaded.DefaultDatabases)
	}
}
