package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mode != ModeSequential {
		t.Errorf("Mode = %s, want sequential", cfg.Mode)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if !cfg.EnableReview || !cfg.EnableSummaries || !cfg.LogExecution {
		t.Error("expected review, summaries, and logging enabled by default")
	}
	if cfg.AutoApproveScore != 0.8 {
		t.Errorf("AutoApproveScore = %f, want 0.8", cfg.AutoApproveScore)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestModeValid(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		expected bool
	}{
		{"sequential", ModeSequential, true},
		{"parallel", ModeParallel, true},
		{"hybrid", ModeHybrid, true},
		{"empty", Mode(""), false},
		{"unknown", Mode("distributed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Valid(); got != tt.expected {
				t.Errorf("Valid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "distributed" }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }},
		{"score above one", func(c *Config) { c.AutoApproveScore = 1.5 }},
		{"negative score", func(c *Config) { c.AutoApproveScore = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskweave.yaml")
	content := []byte("mode: parallel\nmax_workers: 2\nenable_review: false\ntask_timeout: 30s\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Mode != ModeParallel {
		t.Errorf("Mode = %s, want parallel", cfg.Mode)
	}
	if cfg.MaxWorkers != 2 {
		t.Errorf("MaxWorkers = %d, want 2", cfg.MaxWorkers)
	}
	if cfg.EnableReview {
		t.Error("EnableReview = true, want false")
	}
	if cfg.TaskTimeout != 30*time.Second {
		t.Errorf("TaskTimeout = %v, want 30s", cfg.TaskTimeout)
	}
	// Unset keys keep defaults.
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.MaxRetries)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file, got nil")
	}
}

func TestLoadInvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskweave.yaml")
	if err := os.WriteFile(path, []byte("mode: warp\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for unknown mode, got nil")
	}
}
