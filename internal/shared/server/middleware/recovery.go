package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
	"tender-backend/internal/shared/telemetry"
)

// Recovery turns panics into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
