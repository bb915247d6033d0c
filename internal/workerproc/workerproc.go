// Package workerproc decodes queued domain events and runs the follow-up work
// the upload request skipped or failed to finish.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode/utf8"

	"tender-backend/internal/chat"
	"tender-backend/internal/classify"
	"tender-backend/internal/documents"
	"tender-backend/internal/events"
	"tender-backend/internal/extract"
	"tender-backend/internal/ingest"
	"tender-backend/internal/llm"
	"tender-backend/internal/shared/telemetry"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingDocumentID indicates an event without a document id.
type ErrMissingDocumentID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingDocumentID) Error() string { return "missing document id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	DocumentID string
	RequestID  string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process event"
	}
	return "process event: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (events.Event, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return events.Event{}, meta, ErrEmptyBody{Meta: meta}
	}

	ev, err := events.Decode([]byte(body))
	if err != nil {
		return events.Event{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(ev.DocumentID) == "" {
		return ev, meta, ErrMissingDocumentID{Meta: meta, RequestID: ev.RequestID}
	}
	return ev, meta, nil
}

// Processor handles one decoded event.
type Processor interface {
	Process(ctx context.Context, ev events.Event) error
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, p Processor, body string) error {
	if p == nil {
		return errors.New("event processor not configured")
	}
	ev, _, err := ParseMessage(body)
	if err != nil {
		return err
	}
	return Handle(ctx, p, ev)
}

// Handle processes an already decoded event.
func Handle(ctx context.Context, p Processor, ev events.Event) error {
	ctx = telemetry.WithRequestID(ctx, ev.RequestID)
	if err := p.Process(ctx, ev); err != nil {
		return ErrProcess{DocumentID: ev.DocumentID, RequestID: ev.RequestID, Err: err}
	}
	return nil
}

// SummaryBackfill writes the summary and chat notification for tender documents
// whose summary call failed or was skipped during upload.
type SummaryBackfill struct {
	Documents *documents.Service
	Chat      *chat.Service
	LLM       llm.Client
}

// Process summarizes the event's document when it still needs one. Events for
// other types, deleted documents and documents without usable text are no-ops.
func (b *SummaryBackfill) Process(ctx context.Context, ev events.Event) error {
	if ev.Type != events.TypeDocumentIngested {
		return nil
	}
	doc, err := b.Documents.Get(ctx, ev.DocumentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return nil
		}
		return err
	}
	if !needsSummary(doc) || !llm.Configured(b.LLM) {
		return nil
	}

	summary, err := llm.Summarize(ctx, b.LLM, doc.Text)
	if err != nil {
		return err
	}
	if summary == "" {
		return nil
	}
	if err := b.Documents.UpdateSummary(ctx, doc.ID, summary); err != nil {
		return err
	}
	if b.Chat != nil {
		if _, err := b.Chat.NotifyUpload(ctx, doc.TenderID, doc.FileName, summary); err != nil {
			telemetry.Error("worker.chat_message_failed", map[string]any{
				"document_id": doc.ID,
				"tender_id":   doc.TenderID,
				"error":       err,
			})
		}
	}
	telemetry.Info("worker.summary_backfilled", map[string]any{
		"document_id": doc.ID,
		"tender_id":   doc.TenderID,
		"request_id":  telemetry.RequestID(ctx),
	})
	return nil
}

func needsSummary(doc documents.Document) bool {
	if doc.Category != string(classify.CategoryTender) || doc.Summary != "" {
		return false
	}
	text := strings.TrimSpace(doc.Text)
	if text == extract.ScannedPDFPlaceholder || strings.HasPrefix(text, "[Text extraction failed") {
		return false
	}
	return utf8.RuneCountInString(text) > ingest.MinMetadataChars
}
