// Copyright (c) 2024-2026 PhishGuard contributors.
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Asizxs33/PHISHGUARD/internal/analyzer"
	"github.com/Asizxs33/PHISHGUARD/internal/handlers"
	"github.com/Asizxs33/PHISHGUARD/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(limiter middleware.RateLimiter) *gin.Engine {
	h := handlers.NewAnalyzeHandler(analyzer.New(), nil, limiter, nil)
	router := gin.New()
	router.POST("/api/analyze-url", h.AnalyzeURL)
	router.POST("/api/analyze-phone", h.AnalyzePhone)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in response: %s", w.Body.String())
	}
	return result
}

func TestAnalyzeURLEndpoint(t *testing.T) {
	router := newRouter(nil)

	w := postJSON(t, router, "/api/analyze-url", `{"url": "http://kaspi-secure-login.tk/verify"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	result := decodeResult(t, w)
	if result["verdict"] != "phishing" {
		t.Errorf("verdict = %v, want phishing", result["verdict"])
	}
	if issues, ok := result["issues"].([]any); !ok || len(issues) == 0 {
		t.Error("expected issues in response")
	}
}

func TestAnalyzeURLSafeDomain(t *testing.T) {
	router := newRouter(nil)

	w := postJSON(t, router, "/api/analyze-url", `{"url": "https://kaspi.kz"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	result := decodeResult(t, w)
	if result["verdict"] != "safe" {
		t.Errorf("verdict = %v, want safe", result["verdict"])
	}
}

func TestAnalyzeURLMissingField(t *testing.T) {
	router := newRouter(nil)

	w := postJSON(t, router, "/api/analyze-url", `{"target": "x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeURLTooLong(t *testing.T) {
	router := newRouter(nil)

	long := `{"url": "http://example.com/` + strings.Repeat("a", 2100) + `"}`
	w := postJSON(t, router, "/api/analyze-url", long)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzePhoneEndpoint(t *testing.T) {
	router := newRouter(nil)

	w := postJSON(t, router, "/api/analyze-phone", `{"phone": "+234 801 234 5678"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	result := decodeResult(t, w)
	if result["verdict"] != "phishing" {
		t.Errorf("verdict = %v, want phishing", result["verdict"])
	}
	if result["input"] != "+2348012345678" {
		t.Errorf("input = %v, want normalized number", result["input"])
	}
}

func TestAnalyzePhoneMissingField(t *testing.T) {
	router := newRouter(nil)

	w := postJSON(t, router, "/api/analyze-phone", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

type blockingLimiter struct{}

func (blockingLimiter) CheckAndRecord(ip, target string) middleware.RateLimitResult {
	return middleware.RateLimitResult{Allowed: false, Reason: "rate_limit", WaitSeconds: 30}
}

func TestAnalyzeRateLimited(t *testing.T) {
	router := newRouter(blockingLimiter{})

	w := postJSON(t, router, "/api/analyze-url", `{"url": "https://example.com"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["reason"] != "rate_limit" {
		t.Errorf("reason = %v", resp["reason"])
	}
	if resp["wait_seconds"].(float64) != 30 {
		t.Errorf("wait_seconds = %v", resp["wait_seconds"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := handlers.NewHealthHandler(nil, nil, "26.8.1")
	router := gin.New()
	router.GET("/health", h.HealthCheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v", resp["status"])
	}
	database := resp["database"].(map[string]any)
	if database["status"] != "disabled" {
		t.Errorf("database status = %v, want disabled without a pool", database["status"])
	}
}
