package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Asizxs33/PHISHGUARD/internal/db"
)

type StatsHandler struct {
	DB *db.Database
}

func NewStatsHandler(database *db.Database) *StatsHandler {
	return &StatsHandler{DB: database}
}

// Stats handles GET /api/stats?days=30.
func (h *StatsHandler) Stats(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	stats, err := h.DB.StatsSince(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	type statItem struct {
		Date            string  `json:"date"`
		TotalAnalyses   int     `json:"total_analyses"`
		PhishingCount   int     `json:"phishing_count"`
		SuspiciousCount int     `json:"suspicious_count"`
		SafeCount       int     `json:"safe_count"`
		AvgScore        float64 `json:"avg_score"`
	}

	items := make([]statItem, 0, len(stats))
	var total, phishing int
	for _, s := range stats {
		items = append(items, statItem{
			Date:            s.Date.Format("2006-01-02"),
			TotalAnalyses:   s.TotalAnalyses,
			PhishingCount:   s.PhishingCount,
			SuspiciousCount: s.SuspiciousCount,
			SafeCount:       s.SafeCount,
			AvgScore:        s.AvgScore,
		})
		total += s.TotalAnalyses
		phishing += s.PhishingCount
	}

	c.JSON(http.StatusOK, gin.H{
		"days":           days,
		"total_analyses": total,
		"phishing_found": phishing,
		"daily":          items,
	})
}
