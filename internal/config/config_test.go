package config_test

import (
	"testing"
	"time"

	"github.com/takeru0219/repo-maintidx/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		GitHubToken:     "ghp_test",
		WindowDays:      90,
		EnhancerTimeout: time.Minute,
		StorageType:     "sqlite",
		SQLitePath:      "./reports.db",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.GitHubToken = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	cfg := validConfig()
	cfg.WindowDays = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero window")
	}
}

func TestValidateRejectsUnknownStorage(t *testing.T) {
	cfg := validConfig()
	cfg.StorageType = "mongodb"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

func TestValidatePostgresNeedsURL(t *testing.T) {
	cfg := validConfig()
	cfg.StorageType = "postgres"
	cfg.PostgresURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres without URL")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_env")
	t.Setenv("WINDOW_DAYS", "30")
	t.Setenv("ENHANCER_ENABLED", "true")
	t.Setenv("ENHANCER_TIMEOUT", "90s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GitHubToken != "ghp_env" {
		t.Errorf("expected token from env, got %q", cfg.GitHubToken)
	}
	if cfg.WindowDays != 30 {
		t.Errorf("expected window 30, got %d", cfg.WindowDays)
	}
	if !cfg.EnhancerEnabled {
		t.Error("expected enhancer enabled")
	}
	if cfg.EnhancerTimeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", cfg.EnhancerTimeout)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WINDOW_DAYS", "")
	t.Setenv("STORAGE_TYPE", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WindowDays != 90 {
		t.Errorf("expected default window 90, got %d", cfg.WindowDays)
	}
	if cfg.StorageType != "sqlite" {
		t.Errorf("expected default sqlite storage, got %q", cfg.StorageType)
	}
}
