package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pollumap/pollumap/services/api/analytics"
)

// handleV1Analysis runs the full analytics engine over the readings
// matching the filters and returns the result for the dashboard.
// The engine recomputes from scratch on every call; nothing is
// cached between requests.
// GET /api/v1/analysis?station_id=ST01&start=...&end=...
func (s *Server) handleV1Analysis(c *gin.Context) {
	// No row limit: the engine wants the whole filtered snapshot.
	query, ok := s.readingQuery(c, 0)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	readings, err := s.store.FetchReadings(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	analysis := analytics.Analyze(readings)

	c.JSON(http.StatusOK, gin.H{
		"data": analysis,
		"meta": gin.H{
			"count":        analysis.TotalReadings,
			"generated_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
