package insights

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service derives and stores insights.
type Service struct {
	Repo InsightsRepo
	Now  func() time.Time
}

// Record extracts insights from a document's text and stores them.
func (s *Service) Record(ctx context.Context, tenderID, documentID, text string) ([]Insight, error) {
	drafts := Extract(text)
	if len(drafts) == 0 {
		return []Insight{}, nil
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	at := now().UTC()
	items := make([]Insight, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, Insight{
			ID:         uuid.NewString(),
			TenderID:   tenderID,
			DocumentID: documentID,
			Kind:       d.Kind,
			Content:    d.Content,
			CreatedAt:  at,
		})
	}
	if err := s.Repo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns a tender's insights, optionally filtered by kind.
func (s *Service) List(ctx context.Context, tenderID, kind string) ([]Insight, error) {
	return s.Repo.ListByTender(ctx, tenderID, kind)
}
