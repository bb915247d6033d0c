package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tender-backend/internal/shared/telemetry"
)

const requestIDKey = "requestId"

// RequestID attaches a request ID to the gin context, the request context and the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(telemetry.WithRequestID(c.Request.Context(), id))
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(requestIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
