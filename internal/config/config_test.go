package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "APP_NAME", "APP_PORT", "LOG_LEVEL",
		"SQLITE_PATH", "MIGRATIONS_PATH", "SOURCE_BASE_URL",
		"RELAYS_PATH", "FETCH_TIMEOUT_MS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.SourceBaseURL != "https://www3.animeflv.net" {
		t.Errorf("unexpected default source base url: %q", cfg.SourceBaseURL)
	}
	if cfg.FetchTimeoutMS != 8000 {
		t.Errorf("expected default fetch timeout 8000, got %d", cfg.FetchTimeoutMS)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected default log level INFO, got %v", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("FETCH_TIMEOUT_MS", "2500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected log level DEBUG, got %v", cfg.LogLevel)
	}
	if cfg.FetchTimeoutMS != 2500 {
		t.Errorf("expected fetch timeout 2500, got %d", cfg.FetchTimeoutMS)
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "LOUD")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an invalid log level")
	}
}

func TestLoadClampsNonPositiveTimeout(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("FETCH_TIMEOUT_MS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FetchTimeoutMS != 8000 {
		t.Errorf("expected fallback timeout 8000, got %d", cfg.FetchTimeoutMS)
	}
}
