package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
	"tender-backend/internal/shared/telemetry"
)

// Handler serves the dashboard route.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the dashboard route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.get)
}

func (h *Handler) get(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context())
	if err != nil {
		telemetry.Error("dashboard.summary_failed", map[string]any{
			"request_id": telemetry.RequestID(c.Request.Context()),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load dashboard", nil)
		return
	}
	respond.OK(c, summary)
}
