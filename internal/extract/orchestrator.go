package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tender-backend/internal/llm"
	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/shared/util"
)

const (
	// MinTextChars is the extracted length under which a large file is re-read remotely.
	MinTextChars = 50
	// MinFallbackBytes is the file size a short extraction must exceed to trigger the fallback.
	MinFallbackBytes = 1000
)

// Result is the best-effort text of one file.
type Result struct {
	Text         string
	MimeType     string
	UsedFallback bool
	// Err is the underlying failure when Text is a placeholder.
	Err error
}

// Orchestrator runs local extraction and escalates to a remote document reader
// when the local result is unusable. It never returns an error; failures become
// placeholder text.
type Orchestrator struct {
	reader  llm.DocumentReader
	tempDir string
	now     func() time.Time
	local   func(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// NewOrchestrator builds an orchestrator. reader may be nil when no provider can read files.
func NewOrchestrator(reader llm.DocumentReader, tempDir string) *Orchestrator {
	if strings.TrimSpace(tempDir) == "" {
		tempDir = os.TempDir()
	}
	return &Orchestrator{reader: reader, tempDir: tempDir, now: time.Now, local: Standard}
}

// Extract produces the text content for data.
func (o *Orchestrator) Extract(ctx context.Context, data []byte, fileName, mimeType string) Result {
	mimeType = NormalizeMimeType(mimeType, fileName, data)
	text, err := o.local(ctx, data, mimeType, fileName)
	if err != nil {
		telemetry.Warn("extract.standard_failed", map[string]any{
			"file":       fileName,
			"mime_type":  mimeType,
			"request_id": telemetry.RequestID(ctx),
			"error":      err,
		})
	}

	if !NeedsFallback(mimeType, text, len(data)) {
		if err != nil {
			return Result{Text: failurePlaceholder(fileName, err), MimeType: mimeType, Err: err}
		}
		return Result{Text: text, MimeType: mimeType}
	}

	metrics.IncExtractionFallback()
	remote, rerr := o.readRemote(ctx, data, fileName, mimeType)
	if rerr != nil {
		telemetry.Error("extract.fallback_failed", map[string]any{
			"file":       fileName,
			"mime_type":  mimeType,
			"request_id": telemetry.RequestID(ctx),
			"error":      rerr,
		})
		return Result{Text: failurePlaceholder(fileName, rerr), MimeType: mimeType, UsedFallback: true, Err: rerr}
	}
	return Result{Text: remote, MimeType: mimeType, UsedFallback: true}
}

// NeedsFallback reports whether the local result should be replaced by a remote read.
func NeedsFallback(mimeType, text string, size int) bool {
	if mimeType == mimePDF && text == ScannedPDFPlaceholder {
		return true
	}
	return len(strings.TrimSpace(text)) < MinTextChars && size > MinFallbackBytes
}

func (o *Orchestrator) readRemote(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	if o.reader == nil {
		return "", llm.ErrNotConfigured
	}
	path, err := o.writeTemp(data, fileName)
	if err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	return o.reader.ReadDocument(ctx, path, mimeType, llm.ReadDocumentPrompt(mimeType))
}

func (o *Orchestrator) writeTemp(data []byte, fileName string) (string, error) {
	base, err := util.CleanFileName(filepath.Base(fileName))
	if err != nil {
		base = "upload"
	}
	path := filepath.Join(o.tempDir, fmt.Sprintf("upload_%d_%s", o.now().UnixNano(), base))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func failurePlaceholder(fileName string, err error) string {
	return fmt.Sprintf("[Text extraction failed for %s: %v]", fileName, err)
}
