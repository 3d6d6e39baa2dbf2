package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Asizxs33/PHISHGUARD/internal/db"
	"github.com/Asizxs33/PHISHGUARD/internal/osint"
)

type HealthHandler struct {
	DB        *db.Database
	Feed      *osint.Feed
	StartTime time.Time
	Version   string
}

func NewHealthHandler(database *db.Database, feed *osint.Feed, version string) *HealthHandler {
	return &HealthHandler{
		DB:        database,
		Feed:      feed,
		StartTime: time.Now(),
		Version:   version,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if h.DB != nil {
		if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	} else {
		dbStatus = "disabled"
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":  "ok",
		"runtime": "go",
		"version": h.Version,
		"uptime":  time.Since(h.StartTime).String(),
		"database": gin.H{
			"status": dbStatus,
		},
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Feed != nil {
		entries, fetchedAt := h.Feed.SnapshotInfo()
		blacklist := gin.H{"entries": entries}
		if !fetchedAt.IsZero() {
			blacklist["fetched_at"] = fetchedAt.Format(time.RFC3339)
		}
		response["blacklist"] = blacklist
	}

	c.JSON(http.StatusOK, response)
}
