package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "json" || cfg.Batch.Workers != 4 || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warikan.toml")
	doc := `
[output]
format = "text"
dir = "/tmp/out"

[batch]
workers = 8

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != "text" || cfg.Output.Dir != "/tmp/out" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Batch.Workers)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	// Unset keys keep their defaults.
	if cfg.Batch.DebounceMs != 200 {
		t.Errorf("debounce_ms = %d, want 200", cfg.Batch.DebounceMs)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load(missing explicit path) = nil error, want failure")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warikan.toml")
	if err := os.WriteFile(path, []byte("[batch]\nworkers = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WARIKAN_WORKERS", "2")
	t.Setenv("WARIKAN_FORMAT", "text")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("workers = %d, want env override 2", cfg.Batch.Workers)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("format = %q, want env override text", cfg.Output.Format)
	}
}

func TestLoadClampsWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warikan.toml")
	if err := os.WriteFile(path, []byte("[batch]\nworkers = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Batch.Workers != 1 {
		t.Errorf("workers = %d, want clamp to 1", cfg.Batch.Workers)
	}
}
