package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Asizxs33/PHISHGUARD/internal/db"
)

type HistoryHandler struct {
	DB *db.Database
}

func NewHistoryHandler(database *db.Database) *HistoryHandler {
	return &HistoryHandler{DB: database}
}

// History handles GET /api/history?kind=url&limit=50.
func (h *HistoryHandler) History(c *gin.Context) {
	kind := c.Query("kind")
	if kind != "" && kind != "url" && kind != "phone" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be \"url\" or \"phone\""})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.DB.RecentAnalyses(c.Request.Context(), kind, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	items := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		items = append(items, records[i].ToDict())
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(items),
		"analyses": items,
	})
}
