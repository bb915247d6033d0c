package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/assist"
	"tender-backend/internal/chat"
	"tender-backend/internal/dashboard"
	"tender-backend/internal/documents"
	"tender-backend/internal/ingest"
	"tender-backend/internal/insights"
	"tender-backend/internal/integrations"
	"tender-backend/internal/services/health"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/server/middleware"
	"tender-backend/internal/tenders"
)

const aiRateLimitGroup = "AI"

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	FilesDir            string
	TenderHandler       *tenders.Handler
	DocumentHandler     *documents.Handler
	UploadHandler       *ingest.Handler
	ChatHandler         *chat.Handler
	InsightHandler      *insights.Handler
	AssistHandler       *assist.Handler
	DashboardHandler    *dashboard.Handler
	IntegrationsHandler *integrations.Handler
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				aiRateLimitGroup: {Rate: 0.5, Burst: 10},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.FilesDir != "" {
		r.Static("/files", deps.FilesDir)
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, st)
	})

	if deps.TenderHandler != nil {
		deps.TenderHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}
	if deps.InsightHandler != nil {
		deps.InsightHandler.RegisterRoutes(api)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterRoutes(api)
	}
	if deps.IntegrationsHandler != nil {
		deps.IntegrationsHandler.RegisterRoutes(api)
	}
	if deps.AssistHandler != nil {
		deps.AssistHandler.RegisterRoutes(api.Group("/ai"))
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if strings.HasPrefix(c.FullPath(), "/api/ai/") {
		return aiRateLimitGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
