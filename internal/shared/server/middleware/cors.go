package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
)

const (
	corsAllowMethods  = "GET,POST,PATCH,DELETE,OPTIONS"
	corsAllowHeaders  = "Content-Type, X-Request-Id"
	corsExposeHeaders = "X-Request-Id, Retry-After, X-RateLimit-Remaining, Location"
	corsMaxAge        = "600"
)

// CORS allows browser calls from the configured origins. "*" allows any origin
// without credentials. Preflights from other origins are refused with 403.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]struct{})
	anyOrigin := false
	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		switch trimmed {
		case "":
		case "*":
			anyOrigin = true
		default:
			origins[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := false
		if origin != "" {
			h := c.Writer.Header()
			if _, ok := origins[origin]; ok {
				allowed = true
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			} else if anyOrigin {
				allowed = true
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if allowed {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}
		}

		if c.Request.Method == http.MethodOptions {
			if origin != "" && !allowed {
				respond.Error(c, http.StatusForbidden, "cors_forbidden", "origin not allowed", nil)
				return
			}
			c.Header("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
