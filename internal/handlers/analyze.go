// Copyright (c) 2024-2026 PhishGuard contributors.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Asizxs33/PHISHGUARD/internal/analyzer"
	"github.com/Asizxs33/PHISHGUARD/internal/db"
	"github.com/Asizxs33/PHISHGUARD/internal/forensics"
	"github.com/Asizxs33/PHISHGUARD/internal/middleware"
	"github.com/Asizxs33/PHISHGUARD/internal/models"
)

const analyzeTimeout = 30 * time.Second

// AnalyzeHandler serves the two analysis endpoints. The database and
// forensics gatherer are optional: without a database results are not
// persisted, without a gatherer the forensics flag is ignored.
type AnalyzeHandler struct {
	Engine    *analyzer.Analyzer
	DB        *db.Database
	Limiter   middleware.RateLimiter
	Forensics *forensics.Gatherer
}

func NewAnalyzeHandler(engine *analyzer.Analyzer, database *db.Database, limiter middleware.RateLimiter, gatherer *forensics.Gatherer) *AnalyzeHandler {
	return &AnalyzeHandler{
		Engine:    engine,
		DB:        database,
		Limiter:   limiter,
		Forensics: gatherer,
	}
}

type analyzeURLRequest struct {
	URL              string `json:"url" binding:"required"`
	IncludeForensics bool   `json:"include_forensics"`
}

type analyzePhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// AnalyzeURL handles POST /api/analyze-url.
func (h *AnalyzeHandler) AnalyzeURL(c *gin.Context) {
	var req analyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must include a \"url\" field"})
		return
	}
	if len(req.URL) > 2048 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL exceeds maximum length of 2048 characters"})
		return
	}

	if !h.allow(c, req.URL) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), analyzeTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.Engine.AnalyzeURL(ctx, req.URL)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"result": result}
	if req.IncludeForensics && h.Forensics != nil {
		if host := hostOf(req.URL); host != "" {
			if report, ferr := h.Forensics.Gather(ctx, host); ferr == nil {
				response["forensics"] = report
			} else {
				slog.Info("Forensics gather failed", "host", host, "error", ferr)
			}
		}
	}

	h.persist(c, "url", result, time.Since(start))
	c.JSON(http.StatusOK, response)
}

// AnalyzePhone handles POST /api/analyze-phone.
func (h *AnalyzeHandler) AnalyzePhone(c *gin.Context) {
	var req analyzePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must include a \"phone\" field"})
		return
	}
	if len(req.Phone) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number exceeds maximum length"})
		return
	}

	if !h.allow(c, req.Phone) {
		return
	}

	start := time.Now()
	result, err := h.Engine.AnalyzePhone(c.Request.Context(), req.Phone)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	h.persist(c, "phone", result, time.Since(start))
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *AnalyzeHandler) allow(c *gin.Context, target string) bool {
	if h.Limiter == nil {
		return true
	}
	result := h.Limiter.CheckAndRecord(c.ClientIP(), target)
	if result.Allowed {
		return true
	}

	traceID, _ := c.Get("trace_id")
	slog.Info("Rate limit triggered",
		"trace_id", traceID,
		"ip", c.ClientIP(),
		"reason", result.Reason,
		"wait_seconds", result.WaitSeconds,
	)

	var msg string
	switch result.Reason {
	case "anti_repeat":
		msg = fmt.Sprintf("This target was just analyzed. Please wait %d seconds before re-analyzing.", result.WaitSeconds)
	default:
		msg = fmt.Sprintf("Rate limit reached. Please wait %d seconds before trying again.", result.WaitSeconds)
	}
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":        msg,
		"reason":       result.Reason,
		"wait_seconds": result.WaitSeconds,
	})
	return false
}

// persist stores the result asynchronously; a storage failure never
// affects the response already being sent.
func (h *AnalyzeHandler) persist(c *gin.Context, kind string, result *analyzer.AnalysisResult, elapsed time.Duration) {
	if h.DB == nil {
		return
	}

	issues, err := json.Marshal(result.Issues)
	if err != nil {
		issues = []byte("[]")
	}
	checks, err := json.Marshal(result.ChecksPerformed)
	if err != nil {
		checks = []byte("[]")
	}
	seconds := elapsed.Seconds()

	rec := &models.AnalysisRecord{
		TraceID:         c.GetString("trace_id"),
		Kind:            kind,
		Input:           result.Input,
		Score:           result.Score,
		Verdict:         string(result.Verdict),
		HeuristicScore:  result.HeuristicScore,
		LearnedScore:    result.LearnedScore,
		Issues:          issues,
		ChecksPerformed: checks,
		ContentAnalyzed: result.ContentAnalyzed,
		DurationSeconds: &seconds,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.DB.SaveAnalysis(ctx, rec); err != nil {
			slog.Warn("Failed to persist analysis", "trace_id", rec.TraceID, "error", err)
		}
	}()
}

func hostOf(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Hostname() != "" {
		return parsed.Hostname()
	}
	if parsed, err := url.Parse("http://" + rawURL); err == nil {
		return parsed.Hostname()
	}
	return ""
}
