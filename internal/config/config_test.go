// Copyright (c) 2024-2026 PhishGuard contributors.
package config

import (
	"testing"
	"time"
)

func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("PORT", "")
	t.Setenv("MODEL_SERVICE_URL", "")
	t.Setenv("FEED_URL", "")
	t.Setenv("FEED_REFRESH_HOURS", "")
	t.Setenv("MAX_CONCURRENT_ANALYSES", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("DISABLE_CONTENT_FETCH", "")
	t.Setenv("VERDICT_SAFE_BELOW", "")
	t.Setenv("VERDICT_PHISHING_AT", "")
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	baseEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.FeedRefresh != 12*time.Hour {
		t.Errorf("expected 12h feed refresh, got %v", cfg.FeedRefresh)
	}
	if cfg.MaxConcurrent != 8 {
		t.Errorf("expected 8 concurrent analyses, got %d", cfg.MaxConcurrent)
	}
	if !cfg.FetchContent {
		t.Error("content fetch should default on")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("origins = %v, want [*]", cfg.AllowedOrigins)
	}
	if cfg.SafeBelow != 0 || cfg.PhishingAt != 0 {
		t.Errorf("thresholds should default to zero (built-in), got %v/%v", cfg.SafeBelow, cfg.PhishingAt)
	}
}

func TestLoad_CustomPort(t *testing.T) {
	baseEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
}

func TestLoad_FeedRefreshHours(t *testing.T) {
	baseEnv(t)
	t.Setenv("FEED_REFRESH_HOURS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FeedRefresh != 3*time.Hour {
		t.Errorf("feed refresh = %v, want 3h", cfg.FeedRefresh)
	}
}

func TestLoad_InvalidFeedRefresh(t *testing.T) {
	baseEnv(t)
	t.Setenv("FEED_REFRESH_HOURS", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric FEED_REFRESH_HOURS")
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	baseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("origins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("origins[1] = %q", cfg.AllowedOrigins[1])
	}
}

func TestLoad_ThresholdValidation(t *testing.T) {
	baseEnv(t)
	t.Setenv("VERDICT_SAFE_BELOW", "0.7")
	t.Setenv("VERDICT_PHISHING_AT", "0.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when safe threshold exceeds phishing threshold")
	}
}

func TestLoad_ThresholdRange(t *testing.T) {
	baseEnv(t)
	t.Setenv("VERDICT_SAFE_BELOW", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for threshold outside (0,1)")
	}
}

func TestLoad_ContentFetchDisable(t *testing.T) {
	baseEnv(t)
	t.Setenv("DISABLE_CONTENT_FETCH", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FetchContent {
		t.Error("DISABLE_CONTENT_FETCH did not disable content fetch")
	}
}
