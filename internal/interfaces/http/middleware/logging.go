// Package middleware holds the cross-cutting request plumbing of the HTTP
// interface.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/prometheus"
)

// RequestLogging logs each request and records its metrics.  metrics may be
// nil.
func RequestLogging(log logging.Logger, metrics *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("client_ip", c.ClientIP()),
		}
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Info("request served", fields...)
		}

		if metrics != nil {
			metrics.ObserveHTTPRequest(c.Request.Method, path, status, elapsed)
		}
	}
}

// Recovery converts panics into 500 responses with a structured log entry.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panicked",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(500, gin.H{"code": "COMMON_001", "message": "internal server error"})
			}
		}()
		c.Next()
	}
}
