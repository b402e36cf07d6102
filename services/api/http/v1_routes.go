package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/core, /api/v1/analysis, /api/v1/data, /api/v1/chat
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	// Core endpoints - station metadata and raw readings
	core := v1.Group("/core")
	{
		core.GET("/stations", s.handleV1ListStations)
		core.GET("/stations/:id", s.handleV1GetStation)
		core.GET("/readings", s.handleV1ListReadings)
	}

	// Analysis endpoint - full engine output for the dashboard
	v1.GET("/analysis", s.handleV1Analysis)

	// Data endpoints - CSV import
	v1.POST("/import", s.handleV1Import)

	// Chat endpoint - LLM-backed insights over the current snapshot
	v1.POST("/chat", s.handleV1Chat)
}

// apiVersionMiddleware adds the X-API-Version header to responses.
func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
