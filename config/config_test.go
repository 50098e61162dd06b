package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("POLL_INTERVAL_SECONDS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %q", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("unexpected default api url %q", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 30 {
		t.Errorf("expected default poll interval 30, got %d", cfg.PollInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_PATH", "/tmp/riftlog-test.db")
	t.Setenv("POLL_INTERVAL_SECONDS", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.DatabasePath != "/tmp/riftlog-test.db" {
		t.Errorf("unexpected db path %q", cfg.DatabasePath)
	}
	if cfg.PollInterval != 5 {
		t.Errorf("expected poll interval 5, got %d", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("POLL_INTERVAL_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.PollInterval != 30 {
		t.Errorf("expected fallback 30, got %d", cfg.PollInterval)
	}
}
