package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		tenderID, _ := c.Get("tenderId")
		documentCount, _ := c.Get("documentCount")

		telemetry.Info("request.complete", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"route":          c.FullPath(),
			"status":         c.Writer.Status(),
			"duration_ms":    float64(latency.Microseconds()) / 1000.0,
			"tender_id":      tenderID,
			"document_count": documentCount,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
		})
	}
}
