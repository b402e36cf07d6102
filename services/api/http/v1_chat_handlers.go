package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pollumap/pollumap/services/api/analytics"
	"github.com/pollumap/pollumap/services/api/chat"
	"github.com/pollumap/pollumap/services/api/db"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// handleV1Chat answers a user question against the current reading
// snapshot. The analytics context is recomputed per request; any
// failure talking to the model degrades to the templated fallback
// rather than an error.
// POST /api/v1/chat
func (s *Server) handleV1Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.ChatTimeout)
	defer cancel()

	readings, err := s.store.FetchReadings(ctx, db.ReadingQuery{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	analysis := analytics.Analyze(readings)

	if s.chat == nil {
		c.JSON(http.StatusOK, chat.Fallback(analysis))
		return
	}

	reply, err := s.chat.Ask(ctx, req.Message, analysis)
	if err != nil {
		log.Printf("chat request failed, serving fallback: %v", err)
		c.JSON(http.StatusOK, chat.Fallback(analysis))
		return
	}

	c.JSON(http.StatusOK, reply)
}
