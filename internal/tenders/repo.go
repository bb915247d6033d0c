package tenders

import (
	"context"
	"time"

	"tender-backend/internal/scoring"
)

// Repo defines persistence operations for tenders and organizations.
type Repo interface {
	// EnsureOrganization creates org if no row with its id exists.
	EnsureOrganization(ctx context.Context, org Organization) error
	// ConnectOrCreate inserts t if no row with its id exists and returns the stored row.
	ConnectOrCreate(ctx context.Context, t Tender) (Tender, error)
	Create(ctx context.Context, t Tender) error
	Get(ctx context.Context, id string) (Tender, error)
	List(ctx context.Context, organizationID string, limit, offset int) ([]Tender, error)
	Update(ctx context.Context, t Tender) error
	// ApplyAssessment overwrites the requirement and score fields of a tender.
	ApplyAssessment(ctx context.Context, id string, requirements []string, a scoring.Assessment, at time.Time) error
	Delete(ctx context.Context, id string) error
}
