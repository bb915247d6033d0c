package assist

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/llm"
	"tender-backend/internal/shared/server/respond"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/tenders"
)

// Handler wires the AI routes.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the AI routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summarize", h.summarize)
	rg.POST("/proposal", h.proposal)
	rg.POST("/study-tools", h.studyTools)
	rg.POST("/search", h.search)
}

type summarizeRequest struct {
	Text string `json:"text"`
}

type proposalRequest struct {
	TenderID     string `json:"tenderId"`
	Section      string `json:"section"`
	Instructions string `json:"instructions"`
}

type studyToolsRequest struct {
	Text string `json:"text"`
	Tool string `json:"tool"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	out, err := h.Svc.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err, "summarize")
		return
	}
	respond.OK(c, gin.H{"summary": out})
}

func (h *Handler) proposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set("tenderId", req.TenderID)
	out, err := h.Svc.Proposal(c.Request.Context(), ProposalInput(req))
	if err != nil {
		writeError(c, err, "proposal")
		return
	}
	respond.OK(c, gin.H{"proposal": out})
}

func (h *Handler) studyTools(c *gin.Context) {
	var req studyToolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	out, err := h.Svc.StudyTool(c.Request.Context(), req.Text, req.Tool)
	if err != nil {
		writeError(c, err, "study_tools")
		return
	}
	respond.OK(c, gin.H{"content": out})
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	out, err := h.Svc.Search(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err, "search")
		return
	}
	respond.OK(c, gin.H{"answer": out})
}

func writeError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "AI provider is not configured", nil)
	case errors.Is(err, tenders.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "tender not found", nil)
	default:
		telemetry.Error("assist."+op+"_failed", map[string]any{
			"request_id": telemetry.RequestID(c.Request.Context()),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "llm_failed", "AI request failed", nil)
	}
}
