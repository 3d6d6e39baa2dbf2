// Copyright (c) 2024-2026 PhishGuard contributors.
package models

import (
	"encoding/json"
	"time"
)

const SchemaVersion = 1

// AnalysisRecord is one stored analysis, URL or phone. Issues and checks
// are kept as raw JSON: the engine's issue shape evolves faster than the
// schema and history readers only render it.
type AnalysisRecord struct {
	ID              int             `json:"id" db:"id"`
	TraceID         string          `json:"trace_id" db:"trace_id"`
	Kind            string          `json:"kind" db:"kind"` // "url" or "phone"
	Input           string          `json:"input" db:"input"`
	Score           float64         `json:"score" db:"score"`
	Verdict         string          `json:"verdict" db:"verdict"`
	HeuristicScore  float64         `json:"heuristic_score" db:"heuristic_score"`
	LearnedScore    *float64        `json:"learned_score" db:"learned_score"`
	Issues          json.RawMessage `json:"issues" db:"issues"`
	ChecksPerformed json.RawMessage `json:"checks_performed" db:"checks_performed"`
	ContentAnalyzed bool            `json:"content_analyzed" db:"content_analyzed"`
	DurationSeconds *float64        `json:"duration_seconds" db:"duration_seconds"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// DailyStats is the per-day rollup served by the stats endpoint.
type DailyStats struct {
	Date            time.Time `json:"date" db:"date"`
	TotalAnalyses   int       `json:"total_analyses" db:"total_analyses"`
	PhishingCount   int       `json:"phishing_count" db:"phishing_count"`
	SuspiciousCount int       `json:"suspicious_count" db:"suspicious_count"`
	SafeCount       int       `json:"safe_count" db:"safe_count"`
	AvgScore        float64   `json:"avg_score" db:"avg_score"`
}

// ToDict flattens a record for JSON responses, normalizing timestamps to
// RFC3339 the way the API has always returned them.
func (r *AnalysisRecord) ToDict() map[string]interface{} {
	result := map[string]interface{}{
		"id":               r.ID,
		"trace_id":         r.TraceID,
		"kind":             r.Kind,
		"input":            r.Input,
		"score":            r.Score,
		"verdict":          r.Verdict,
		"heuristic_score":  r.HeuristicScore,
		"issues":           r.Issues,
		"checks_performed": r.ChecksPerformed,
		"content_analyzed": r.ContentAnalyzed,
	}
	if r.LearnedScore != nil {
		result["learned_score"] = *r.LearnedScore
	}
	if r.DurationSeconds != nil {
		result["duration_seconds"] = *r.DurationSeconds
	}
	if !r.CreatedAt.IsZero() {
		result["created_at"] = r.CreatedAt.Format(time.RFC3339)
	}
	return result
}
