package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tender-backend/internal/shared/storage/object"
	"tender-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
	Now   func() time.Time
}

// Create records a document. ID and CreatedAt are assigned when empty.
func (s *Service) Create(ctx context.Context, doc Document) (Document, error) {
	if strings.TrimSpace(doc.TenderID) == "" || strings.TrimSpace(doc.FileName) == "" {
		return Document{}, fmt.Errorf("%w: tender id and file name are required", ErrInvalidInput)
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns documents matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]Document, error) {
	return s.Repo.List(ctx, f, limit, offset)
}

// UpdateSummary stores a summary generated after the document was created.
func (s *Service) UpdateSummary(ctx context.Context, id, summary string) error {
	return s.Repo.UpdateSummary(ctx, id, strings.TrimSpace(summary))
}

// CountByCategory returns document counts keyed by category.
func (s *Service) CountByCategory(ctx context.Context) (map[string]int, error) {
	return s.Repo.CountByCategory(ctx)
}

// Delete removes the document row and, best effort, its stored object.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if doc.StorageKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Warn("documents.object_delete_failed", map[string]any{
				"document_id": id,
				"storage_key": doc.StorageKey,
				"error":       err,
			})
		}
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
