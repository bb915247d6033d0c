package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/classify"
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

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	f := Filter{TenderID: c.Query("tenderId"), Category: c.Query("category")}
	if f.Category != "" && !classify.Category(f.Category).Valid() {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown category", nil)
		return
	}

	limit := 50
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), f, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc, false))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		return
	}
	respond.OK(c, toResponse(doc, true))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		return
	}
	respond.NoContent(c)
}
