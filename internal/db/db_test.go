package db_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Asizxs33/PHISHGUARD/internal/db"
	"github.com/Asizxs33/PHISHGUARD/internal/models"
)

func getTestDB(t *testing.T) *db.Database {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	database, err := db.Connect(dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestHealthCheck(t *testing.T) {
	database := getTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx); err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
}

func TestSaveAndListAnalyses(t *testing.T) {
	database := getTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, _ := json.Marshal([]map[string]any{{"type": "suspicious_tld", "severity": 0.65}})
	checks, _ := json.Marshal([]string{"url_parse", "tld_check"})
	rec := &models.AnalysisRecord{
		TraceID:         uuid.NewString(),
		Kind:            "url",
		Input:           "http://integration-test.tk/",
		Score:           0.58,
		Verdict:         "suspicious",
		HeuristicScore:  0.58,
		Issues:          issues,
		ChecksPerformed: checks,
	}
	if err := database.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}
	if rec.ID == 0 || rec.CreatedAt.IsZero() {
		t.Errorf("record not filled in: id=%d created_at=%v", rec.ID, rec.CreatedAt)
	}

	records, err := database.RecentAnalyses(ctx, "url", 5)
	if err != nil {
		t.Fatalf("RecentAnalyses failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected at least the record just saved")
	}
	for _, r := range records {
		if r.Kind != "url" {
			t.Errorf("kind filter leaked %q record", r.Kind)
		}
	}
}

func TestStatsSince(t *testing.T) {
	database := getTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := database.StatsSince(ctx, 7)
	if err != nil {
		t.Fatalf("StatsSince failed: %v", err)
	}
	for _, s := range stats {
		if s.TotalAnalyses < s.PhishingCount+s.SuspiciousCount+s.SafeCount {
			t.Errorf("verdict counts exceed total on %v", s.Date)
		}
	}
}
