package chat

import (
	"net/http"
	"strconv"
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

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tenders/:id/messages", h.list)
}

type messageResponse struct {
	ID        string    `json:"id"`
	TenderID  string    `json:"tenderId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) list(c *gin.Context) {
	limit := 200
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	msgs, err := h.Svc.List(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list messages", nil)
		return
	}
	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse(m))
	}
	respond.OK(c, resp)
}
