// Package db owns the Postgres connection pool and the handful of
// queries the service runs: insert an analysis, list recent history,
// roll up daily stats.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Asizxs33/PHISHGUARD/internal/models"
)

type Database struct {
	Pool *pgxpool.Pool
}

func Connect(databaseURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 2 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected successfully")
	return &Database{Pool: pool}, nil
}

func (d *Database) Close() {
	if d.Pool != nil {
		d.Pool.Close()
		slog.Info("Database connection closed")
	}
}

func (d *Database) HealthCheck(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// SaveAnalysis inserts one record and fills in its ID and CreatedAt.
func (d *Database) SaveAnalysis(ctx context.Context, rec *models.AnalysisRecord) error {
	const q = `
		INSERT INTO analyses
			(trace_id, kind, input, score, verdict, heuristic_score,
			 learned_score, issues, checks_performed, content_analyzed,
			 duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	return d.Pool.QueryRow(ctx, q,
		rec.TraceID, rec.Kind, rec.Input, rec.Score, rec.Verdict,
		rec.HeuristicScore, rec.LearnedScore, rec.Issues,
		rec.ChecksPerformed, rec.ContentAnalyzed, rec.DurationSeconds,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// RecentAnalyses returns the newest records first, optionally filtered
// by kind ("url" or "phone"; empty means both).
func (d *Database) RecentAnalyses(ctx context.Context, kind string, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	const base = `
		SELECT id, trace_id, kind, input, score, verdict, heuristic_score,
		       learned_score, issues, checks_performed, content_analyzed,
		       duration_seconds, created_at
		FROM analyses`

	var rows pgx.Rows
	var err error
	if kind == "" {
		rows, err = d.Pool.Query(ctx, base+` ORDER BY created_at DESC LIMIT $1`, limit)
	} else {
		rows, err = d.Pool.Query(ctx, base+` WHERE kind = $1 ORDER BY created_at DESC LIMIT $2`, kind, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var rec models.AnalysisRecord
		if err := rows.Scan(
			&rec.ID, &rec.TraceID, &rec.Kind, &rec.Input, &rec.Score,
			&rec.Verdict, &rec.HeuristicScore, &rec.LearnedScore,
			&rec.Issues, &rec.ChecksPerformed, &rec.ContentAnalyzed,
			&rec.DurationSeconds, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// StatsSince rolls up daily verdict counts for the last N days.
func (d *Database) StatsSince(ctx context.Context, days int) ([]models.DailyStats, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	const q = `
		SELECT date_trunc('day', created_at) AS day,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE verdict = 'phishing'),
		       COUNT(*) FILTER (WHERE verdict = 'suspicious'),
		       COUNT(*) FILTER (WHERE verdict = 'safe'),
		       COALESCE(AVG(score), 0)
		FROM analyses
		WHERE created_at >= now() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day DESC`

	rows, err := d.Pool.Query(ctx, q, days)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyStats
	for rows.Next() {
		var s models.DailyStats
		if err := rows.Scan(&s.Date, &s.TotalAnalyses, &s.PhishingCount,
			&s.SuspiciousCount, &s.SafeCount, &s.AvgScore); err != nil {
			return nil, fmt.Errorf("stats scan: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
