package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pollumap/pollumap/services/api/db"
)

// handleV1ListStations returns all stations
// GET /api/v1/core/stations
func (s *Server) handleV1ListStations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stations, err := s.store.ListStations(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stations,
		"meta": gin.H{
			"count": len(stations),
		},
	})
}

// handleV1GetStation returns details for a specific station
// GET /api/v1/core/stations/:id
func (s *Server) handleV1GetStation(c *gin.Context) {
	stationID := c.Param("id")
	if stationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	station, err := s.store.GetStation(ctx, stationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if station == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": station,
	})
}

// handleV1ListReadings returns readings filtered by station and time
// GET /api/v1/core/readings?station_id=ST01&start=...&end=...&last_n=500&last_n_days=7
func (s *Server) handleV1ListReadings(c *gin.Context) {
	query, ok := s.readingQuery(c, s.cfg.DefaultLimit)
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

	c.JSON(http.StatusOK, gin.H{
		"data": readings,
		"meta": gin.H{
			"count": len(readings),
		},
	})
}

// readingQuery parses the shared reading filter parameters. On a bad
// parameter it writes the error response and reports !ok.
func (s *Server) readingQuery(c *gin.Context, defaultLimit int) (db.ReadingQuery, bool) {
	query := db.ReadingQuery{
		StationID: c.Query("station_id"),
		Limit:     defaultLimit,
	}

	if limitStr := c.Query("last_n"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_n"})
			return query, false
		}
		query.Limit = parsed
	}

	if daysStr := c.Query("last_n_days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_n_days"})
			return query, false
		}
		t := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
		query.Since = &t
	}

	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp"})
			return query, false
		}
		tt := t.UTC()
		query.Since = &tt
	}

	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp"})
			return query, false
		}
		tt := t.UTC()
		query.Until = &tt
	}

	return query, true
}
