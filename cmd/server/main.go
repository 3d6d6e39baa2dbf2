package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/Asizxs33/PHISHGUARD/internal/analyzer"
	"github.com/Asizxs33/PHISHGUARD/internal/config"
	"github.com/Asizxs33/PHISHGUARD/internal/db"
	"github.com/Asizxs33/PHISHGUARD/internal/forensics"
	"github.com/Asizxs33/PHISHGUARD/internal/handlers"
	"github.com/Asizxs33/PHISHGUARD/internal/middleware"
	"github.com/Asizxs33/PHISHGUARD/internal/mlmodel"
	"github.com/Asizxs33/PHISHGUARD/internal/osint"
	"github.com/Asizxs33/PHISHGUARD/internal/webclient"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	feedOpts := []osint.Option{osint.WithRefreshInterval(cfg.FeedRefresh)}
	if cfg.FeedURL != "" {
		feedOpts = append(feedOpts, osint.WithURL(cfg.FeedURL))
	}
	feed := osint.New(feedOpts...)
	if err := feed.Refresh(ctx); err != nil {
		slog.Warn("Initial blacklist refresh failed, starting without it", "error", err)
	}
	go feed.Run(ctx)

	engineOpts := []analyzer.Option{
		analyzer.WithBlacklist(feed),
		analyzer.WithMaxConcurrent(cfg.MaxConcurrent),
	}
	if cfg.FetchContent {
		engineOpts = append(engineOpts, analyzer.WithFetcher(webclient.New()))
	}
	if cfg.ModelServiceURL != "" {
		engineOpts = append(engineOpts,
			analyzer.WithURLModel(mlmodel.NewURLClient(cfg.ModelServiceURL)),
			analyzer.WithPhoneModel(mlmodel.NewPhoneClient(cfg.ModelServiceURL)),
		)
		slog.Info("Model service enabled", "url", cfg.ModelServiceURL)
	}
	if cfg.SafeBelow != 0 || cfg.PhishingAt != 0 {
		weights := analyzer.DefaultWeights()
		if cfg.SafeBelow != 0 {
			weights.SafeBelow = cfg.SafeBelow
		}
		if cfg.PhishingAt != 0 {
			weights.PhishingAt = cfg.PhishingAt
		}
		engineOpts = append(engineOpts, analyzer.WithWeights(weights))
		slog.Info("Verdict thresholds overridden", "safe_below", weights.SafeBelow, "phishing_at", weights.PhishingAt)
	}
	engine := analyzer.New(engineOpts...)
	slog.Info("Analysis engine initialized", "max_concurrent", cfg.MaxConcurrent, "content_fetch", cfg.FetchContent)

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory",
		"max_requests", middleware.RateLimitMaxRequests, "window_seconds", middleware.RateLimitWindow)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Content-Type")
	router.Use(cors.New(corsConfig))

	analyzeHandler := handlers.NewAnalyzeHandler(engine, database, rateLimiter, forensics.New())
	historyHandler := handlers.NewHistoryHandler(database)
	statsHandler := handlers.NewStatsHandler(database)
	healthHandler := handlers.NewHealthHandler(database, feed, cfg.AppVersion)

	router.POST("/api/analyze-url", analyzeHandler.AnalyzeURL)
	router.POST("/api/analyze-phone", analyzeHandler.AnalyzePhone)
	router.GET("/api/history", historyHandler.History)
	router.GET("/api/stats", statsHandler.Stats)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/api/health", healthHandler.HealthCheck)

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting PhishGuard API server", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
