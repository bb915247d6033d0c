// Package ingest runs the document upload pipeline: classification, routing,
// storage, text extraction, AI metadata and the persistence side effects.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"tender-backend/internal/chat"
	"tender-backend/internal/classify"
	"tender-backend/internal/documents"
	"tender-backend/internal/events"
	"tender-backend/internal/extract"
	"tender-backend/internal/insights"
	"tender-backend/internal/llm"
	"tender-backend/internal/scoring"
	"tender-backend/internal/shared/metrics"
	"tender-backend/internal/shared/storage/object"
	"tender-backend/internal/shared/telemetry"
	"tender-backend/internal/tenders"
)

// MinMetadataChars is the text length a tender document must exceed before
// summary and metadata are requested.
const MinMetadataChars = 100

// TextExtractor produces best-effort text for a file.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, fileName, mimeType string) extract.Result
}

// File is one uploaded file.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Saved describes a stored document.
type Saved struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CloudURL     string `json:"cloudUrl,omitempty"`
	TenderID     string `json:"tenderId"`
	Category     string `json:"category"`
	DocumentType string `json:"documentType"`
}

// UploadResult is the outcome of the cloud storage step.
type UploadResult struct {
	Success   bool
	PublicURL string
	Key       string
	Err       error
}

// Service wires the pipeline collaborators. Store, LLM, Scorer, Chat, Insights
// and Events are optional.
type Service struct {
	Store           object.ObjectStore
	Extractor       TextExtractor
	LLM             llm.Client
	Scorer          scoring.Scorer
	Tenders         *tenders.Service
	Documents       *documents.Service
	Chat            *chat.Service
	Insights        *insights.Service
	Events          events.Publisher
	DefaultTenderID string
	Now             func() time.Time
}

// IngestBatch processes files sequentially in order. The first persistence error
// aborts the remaining files.
func (s *Service) IngestBatch(ctx context.Context, tenderID string, files []File) ([]Saved, error) {
	out := make([]Saved, 0, len(files))
	for _, f := range files {
		saved, err := s.IngestFile(ctx, tenderID, f)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// IngestFile runs the pipeline for one file. Only persistence failures are returned;
// storage, extraction, AI and notification failures are logged and absorbed.
func (s *Service) IngestFile(ctx context.Context, requestedTenderID string, f File) (Saved, error) {
	if strings.TrimSpace(f.Name) == "" {
		return Saved{}, fmt.Errorf("%w: file name is required", documents.ErrInvalidInput)
	}
	head := f.Data
	if len(head) > 3072 {
		head = head[:3072]
	}
	mimeType := object.ContentType(f.MimeType, head)

	class := classify.Classify(f.Name)
	tenderID := s.route(class.Category, requestedTenderID)
	logFields := func(extra map[string]any) map[string]any {
		fields := map[string]any{
			"file":       f.Name,
			"tender_id":  tenderID,
			"category":   string(class.Category),
			"request_id": telemetry.RequestID(ctx),
		}
		for k, v := range extra {
			fields[k] = v
		}
		return fields
	}

	upload := s.upload(ctx, tenderID, f.Name, mimeType, f.Data)
	if !upload.Success && upload.Err != nil {
		telemetry.Error("ingest.cloud_upload_failed", logFields(map[string]any{"error": upload.Err}))
	}

	extracted := s.Extractor.Extract(ctx, f.Data, f.Name, mimeType)
	if extracted.MimeType != "" {
		mimeType = extracted.MimeType
	}

	var summary string
	var meta *llm.Metadata
	if s.wantsMetadata(class.Category, extracted) {
		summary, meta = s.analyze(ctx, extracted.Text, logFields)
	}

	tender, err := s.Tenders.ConnectOrCreate(ctx, tenderID)
	if err != nil {
		return Saved{}, fmt.Errorf("connect tender %s: %w", tenderID, err)
	}

	doc, err := s.Documents.Create(ctx, documents.Document{
		TenderID:     tender.ID,
		FileName:     f.Name,
		MimeType:     mimeType,
		SizeBytes:    int64(len(f.Data)),
		Text:         extracted.Text,
		CloudURL:     upload.PublicURL,
		StorageKey:   upload.Key,
		Category:     string(class.Category),
		DocumentType: class.DocumentType,
		Summary:      summary,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return Saved{}, fmt.Errorf("create document %s: %w", f.Name, err)
	}

	if meta != nil {
		s.applyMetadata(ctx, tender, *meta, logFields)
	}

	if class.Category == classify.CategoryTender && summary != "" && s.Chat != nil {
		if _, err := s.Chat.NotifyUpload(ctx, tender.ID, f.Name, summary); err != nil {
			telemetry.Error("ingest.chat_message_failed", logFields(map[string]any{"error": err}))
		}
	}

	if s.Insights != nil && extracted.Err == nil {
		if _, err := s.Insights.Record(ctx, tender.ID, doc.ID, extracted.Text); err != nil {
			telemetry.Error("ingest.insights_failed", logFields(map[string]any{"error": err}))
		}
	}

	s.publish(ctx, doc, logFields)
	metrics.IncDocumentsIngested()
	telemetry.Info("ingest.document_saved", logFields(map[string]any{
		"document_id":   doc.ID,
		"document_type": doc.DocumentType,
		"size_bytes":    doc.SizeBytes,
		"fallback":      extracted.UsedFallback,
		"has_summary":   summary != "",
	}))

	return Saved{
		ID:           doc.ID,
		Name:         doc.FileName,
		CloudURL:     doc.CloudURL,
		TenderID:     doc.TenderID,
		Category:     doc.Category,
		DocumentType: doc.DocumentType,
	}, nil
}

// route picks the tender a document attaches to. Company and supporting
// documents always go to the global pool.
func (s *Service) route(category classify.Category, requested string) string {
	if category.IsGlobal() {
		return tenders.GlobalDocumentsID
	}
	if id := strings.TrimSpace(requested); id != "" {
		return id
	}
	return s.DefaultTenderID
}

func (s *Service) upload(ctx context.Context, tenderID, name, mimeType string, data []byte) UploadResult {
	if s.Store == nil {
		return UploadResult{}
	}
	obj, err := s.Store.Put(ctx, tenderID, name, mimeType, bytes.NewReader(data))
	if err != nil {
		return UploadResult{Err: err}
	}
	return UploadResult{Success: true, PublicURL: obj.URL, Key: obj.Key}
}

func (s *Service) wantsMetadata(category classify.Category, res extract.Result) bool {
	if category != classify.CategoryTender || res.Err != nil {
		return false
	}
	if !llm.Configured(s.LLM) {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(res.Text)) > MinMetadataChars
}

func (s *Service) analyze(ctx context.Context, text string, logFields func(map[string]any) map[string]any) (string, *llm.Metadata) {
	summary, err := llm.Summarize(ctx, s.LLM, text)
	if err != nil {
		metrics.IncMetadataFailed()
		telemetry.Error("ingest.summary_failed", logFields(map[string]any{"error": err}))
		summary = ""
	}

	meta, err := llm.ExtractMetadata(ctx, s.LLM, text)
	if err != nil {
		metrics.IncMetadataFailed()
		telemetry.Error("ingest.metadata_failed", logFields(map[string]any{
			"error":       err,
			"no_metadata": errors.Is(err, llm.ErrNoMetadata),
		}))
		return summary, nil
	}
	return summary, &meta
}

// applyMetadata scores requirements and overwrites the tender's assessment, then
// fills an empty budget and placeholder title. Metadata without requirements, or
// a failed assessment, leaves the tender as it was.
func (s *Service) applyMetadata(ctx context.Context, tender tenders.Tender, meta llm.Metadata, logFields func(map[string]any) map[string]any) {
	if len(meta.Requirements) == 0 || s.Scorer == nil {
		telemetry.Info("ingest.tender_unchanged", logFields(map[string]any{"requirements": len(meta.Requirements)}))
		return
	}
	assessment, err := s.Scorer.Assess(ctx, meta.Requirements)
	if err != nil {
		telemetry.Error("ingest.assessment_failed", logFields(map[string]any{"error": err}))
		return
	}
	if err := s.Tenders.ApplyAssessment(ctx, tender.ID, meta.Requirements, assessment); err != nil {
		telemetry.Error("ingest.assessment_save_failed", logFields(map[string]any{"error": err}))
		return
	}

	var patch tenders.Patch
	if meta.Budget != "" && tender.Budget == "" {
		patch.Budget = &meta.Budget
	}
	if meta.Title != "" && tender.Title == "Tender "+tender.ID {
		patch.Title = &meta.Title
	}
	if patch.Budget == nil && patch.Title == nil {
		return
	}
	if _, err := s.Tenders.Update(ctx, tender.ID, patch); err != nil {
		telemetry.Error("ingest.tender_enrich_failed", logFields(map[string]any{"error": err}))
	}
}

func (s *Service) publish(ctx context.Context, doc documents.Document, logFields func(map[string]any) map[string]any) {
	if s.Events == nil {
		return
	}
	ev := events.Event{
		Type:       events.TypeDocumentIngested,
		DocumentID: doc.ID,
		TenderID:   doc.TenderID,
		Category:   doc.Category,
		RequestID:  telemetry.RequestID(ctx),
		EnqueuedAt: s.now().Format(time.RFC3339),
		Version:    1,
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		telemetry.Error("ingest.event_publish_failed", logFields(map[string]any{"error": err}))
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
