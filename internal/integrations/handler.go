package integrations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
)

// Handler exposes the registry over HTTP.
type Handler struct {
	Registry *Registry
}

// NewHandler constructs a Handler.
func NewHandler(reg *Registry) *Handler {
	return &Handler{Registry: reg}
}

// RegisterRoutes attaches integration routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/integrations", h.list)
	rg.POST("/integrations/:name/connect", h.connect)
	rg.GET("/integrations/:name/callback", h.callback)
	rg.POST("/integrations/:name/sync", h.sync)
	rg.POST("/integrations/:name/disconnect", h.disconnect)
}

type connectRequest struct {
	Credentials Credentials `json:"credentials"`
}

type syncResponse struct {
	Integration Integration `json:"integration"`
	Result      SyncResult  `json:"result"`
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, h.Registry.List())
}

func (h *Handler) connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	integration, err := h.Registry.Connect(c.Request.Context(), c.Param("name"), req.Credentials)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, integration)
}

func (h *Handler) callback(c *gin.Context) {
	integration, err := h.Registry.Complete(c.Request.Context(), c.Param("name"), c.Query("state"), c.Query("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, integration)
}

func (h *Handler) sync(c *gin.Context) {
	integration, res, err := h.Registry.Sync(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, syncResponse{Integration: integration, Result: res})
}

func (h *Handler) disconnect(c *gin.Context) {
	integration, err := h.Registry.Disconnect(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, integration)
}

func writeError(c *gin.Context, err error) {
	var connErr *ConnectionError
	switch {
	case errors.Is(err, ErrUnknownIntegration):
		respond.Error(c, http.StatusNotFound, "not_found", "integration not found", nil)
	case errors.Is(err, ErrNotConnected):
		respond.Error(c, http.StatusConflict, "not_connected", "integration is not connected", nil)
	case errors.As(err, &connErr):
		var details map[string]string
		if connErr.Field != "" {
			details = map[string]string{"field": connErr.Field}
		}
		respond.Error(c, http.StatusBadRequest, "connection_error", connErr.Error(), details)
	default:
		respond.Error(c, http.StatusBadGateway, "integration_failed", "integration request failed", nil)
	}
}
