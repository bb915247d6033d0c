package ingest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/server/respond"
	"tender-backend/internal/shared/telemetry"
)

const (
	maxUploadSize = 50 << 20 // 50MB per request
	maxMemory     = 8 << 20
)

// Handler wires the upload route to the pipeline.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
}

type uploadResponse struct {
	OK        bool    `json:"ok"`
	Documents []Saved `json:"documents"`
}

func (h *Handler) upload(c *gin.Context) {
	start := time.Now()
	defer func() { metrics.ObserveUploadDurationMs(metrics.SinceMillis(start)) }()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form required", nil)
		return
	}
	form := c.Request.MultipartForm
	defer func() { _ = form.RemoveAll() }()

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no files provided", nil)
		return
	}

	tenderID := strings.TrimSpace(firstValue(form.Value, "tenderId", "projectId"))
	if tenderID == "" {
		tenderID = h.Svc.DefaultTenderID
	}
	c.Set("tenderId", tenderID)

	ctx := c.Request.Context()
	saved := make([]Saved, 0, len(headers))
	for _, fh := range headers {
		file, err := readFile(fh)
		if err != nil {
			metrics.IncUploadFailed()
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		doc, err := h.Svc.IngestFile(ctx, tenderID, file)
		if err != nil {
			metrics.IncUploadFailed()
			telemetry.Error("ingest.batch_aborted", map[string]any{
				"file":       fh.Filename,
				"tender_id":  tenderID,
				"saved":      len(saved),
				"request_id": telemetry.RequestID(ctx),
				"error":      err,
			})
			respond.Error(c, http.StatusInternalServerError, "upload_failed", err.Error(), nil)
			return
		}
		saved = append(saved, doc)
	}

	c.Set("documentCount", len(saved))
	respond.OK(c, uploadResponse{OK: true, Documents: saved})
}

func readFile(fh *multipart.FileHeader) (File, error) {
	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("unable to read %s", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, fmt.Errorf("unable to read %s", fh.Filename)
	}
	return File{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func firstValue(values map[string][]string, keys ...string) string {
	for _, k := range keys {
		if v := values[k]; len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			return v[0]
		}
	}
	return ""
}
