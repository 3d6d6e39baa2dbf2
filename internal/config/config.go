// Copyright (c) 2024-2026 PhishGuard contributors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL     string
	Port            string
	AppVersion      string
	Testing         bool
	ModelServiceURL string // empty disables learned-model blending
	FeedURL         string // empty keeps the built-in OpenPhish feed
	FeedRefresh     time.Duration
	MaxConcurrent   int
	FetchContent    bool
	AllowedOrigins  []string

	// Verdict threshold overrides; zero keeps the built-in calibration.
	SafeBelow  float64
	PhishingAt float64
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := &Config{
		DatabaseURL:     dbURL,
		Port:            port,
		AppVersion:      "26.8.1",
		ModelServiceURL: os.Getenv("MODEL_SERVICE_URL"),
		FeedURL:         os.Getenv("FEED_URL"),
		FeedRefresh:     12 * time.Hour,
		MaxConcurrent:   8,
		FetchContent:    os.Getenv("DISABLE_CONTENT_FETCH") == "",
		AllowedOrigins:  []string{"*"},
	}

	if hours := os.Getenv("FEED_REFRESH_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("FEED_REFRESH_HOURS must be a positive integer, got %q", hours)
		}
		cfg.FeedRefresh = time.Duration(n) * time.Hour
	}

	if mc := os.Getenv("MAX_CONCURRENT_ANALYSES"); mc != "" {
		n, err := strconv.Atoi(mc)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("MAX_CONCURRENT_ANALYSES must be a positive integer, got %q", mc)
		}
		cfg.MaxConcurrent = n
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	if cfg.SafeBelow, err = parseThreshold("VERDICT_SAFE_BELOW"); err != nil {
		return nil, err
	}
	if cfg.PhishingAt, err = parseThreshold("VERDICT_PHISHING_AT"); err != nil {
		return nil, err
	}
	if cfg.SafeBelow != 0 && cfg.PhishingAt != 0 && cfg.SafeBelow >= cfg.PhishingAt {
		return nil, fmt.Errorf("VERDICT_SAFE_BELOW (%v) must be less than VERDICT_PHISHING_AT (%v)",
			cfg.SafeBelow, cfg.PhishingAt)
	}

	return cfg, nil
}

func parseThreshold(name string) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f >= 1 {
		return 0, fmt.Errorf("%s must be a float in (0,1), got %q", name, v)
	}
	return f, nil
}
