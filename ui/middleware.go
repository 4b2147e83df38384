package ui

import (
	"time"

	"ballistix/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware(telemetry.InstrumentationName))
	s.router.Use(s.requestLogger())
}

// requestLogger logs one line per request through the application logger
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			return
		}
		s.logger.Debug("%s %s -> %d in %s", c.Request.Method, path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
