package http

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pollumap/pollumap/services/api/db"
	"github.com/pollumap/pollumap/services/api/ingest"
)

// handleV1Import accepts a readings CSV, either as a multipart form
// field named "file" or as the raw request body, parses it and
// stores stations and readings.
// POST /api/v1/import
func (s *Server) handleV1Import(c *gin.Context) {
	body, err := importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer body.Close()

	result, err := ingest.ParseReadings(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CSV: " + err.Error()})
		return
	}
	if len(result.Readings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid readings in upload", "skipped": result.Skipped})
		return
	}

	importID := uuid.NewString()
	stations := db.StationsFromReadings(result.Readings)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := s.store.UpsertStations(ctx, stations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.InsertReadings(ctx, result.Readings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("import %s: %d readings, %d stations, %d rows skipped",
		importID, len(result.Readings), len(stations), result.Skipped)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"import_id": importID,
			"readings":  len(result.Readings),
			"stations":  len(stations),
			"skipped":   result.Skipped,
		},
	})
}

func importBody(c *gin.Context) (io.ReadCloser, error) {
	file, _, err := c.Request.FormFile("file")
	if err == nil {
		return file, nil
	}
	if c.Request.Body == nil {
		return nil, err
	}
	return c.Request.Body, nil
}
