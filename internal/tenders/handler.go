package tenders

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes attaches tender routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tenders", h.list)
	rg.POST("/tenders", h.create)
	rg.GET("/tenders/:id", h.get)
	rg.PATCH("/tenders/:id", h.update)
	rg.DELETE("/tenders/:id", h.delete)
	rg.POST("/tenders/:id/gap-analysis", h.gapAnalysis)
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list tenders")
		return
	}
	resp := make([]TenderResponse, 0, len(items))
	for _, t := range items {
		resp = append(resp, ToResponse(t))
	}
	respond.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), CreateInput(req))
	if err != nil {
		writeError(c, err, "failed to create tender")
		return
	}
	respond.Created(c, "/api/tenders/"+t.ID, ToResponse(t))
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch tender")
		return
	}
	respond.OK(c, ToResponse(t))
}

func (h *Handler) update(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), c.Param("id"), Patch(req))
	if err != nil {
		writeError(c, err, "failed to update tender")
		return
	}
	respond.OK(c, ToResponse(t))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete tender")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) gapAnalysis(c *gin.Context) {
	t, err := h.Svc.RunGapAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to run gap analysis")
		return
	}
	respond.OK(c, ToResponse(t))
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "tender not found", nil)
	case errors.Is(err, ErrProtected):
		respond.Error(c, http.StatusBadRequest, "protected", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
