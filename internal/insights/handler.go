package insights

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches insight routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tenders/:id/insights", h.list)
}

type insightResponse struct {
	ID         string    `json:"id"`
	TenderID   string    `json:"tenderId"`
	DocumentID string    `json:"documentId"`
	Kind       string    `json:"kind"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) list(c *gin.Context) {
	kind := c.Query("kind")
	switch kind {
	case "", KindDeadline, KindBudget, KindRequirement, KindContact:
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown insight kind", nil)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list insights", nil)
		return
	}
	resp := make([]insightResponse, 0, len(items))
	for _, in := range items {
		resp = append(resp, insightResponse(in))
	}
	respond.OK(c, resp)
}
