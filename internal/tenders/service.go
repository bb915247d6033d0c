package tenders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tender-backend/internal/scoring"
)

// Service contains business logic for tenders.
type Service struct {
	Repo           Repo
	Scorer         scoring.Scorer
	OrganizationID string
	Now            func() time.Time
}

// NewService constructs a Service for the given organization.
func NewService(repo Repo, scorer scoring.Scorer, organizationID string) *Service {
	return &Service{Repo: repo, Scorer: scorer, OrganizationID: organizationID, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// EnsureOrganization creates the service's organization if it does not exist.
func (s *Service) EnsureOrganization(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		name = "Demo Organization"
	}
	return s.Repo.EnsureOrganization(ctx, Organization{ID: s.OrganizationID, Name: name, CreatedAt: s.now()})
}

// ConnectOrCreate returns the tender with id, creating it and its organization when missing.
func (s *Service) ConnectOrCreate(ctx context.Context, id string) (Tender, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Tender{}, fmt.Errorf("%w: tender id required", ErrInvalidInput)
	}
	if err := s.EnsureOrganization(ctx, ""); err != nil {
		return Tender{}, fmt.Errorf("ensure organization: %w", err)
	}
	now := s.now()
	return s.Repo.ConnectOrCreate(ctx, Tender{
		ID:             id,
		OrganizationID: s.OrganizationID,
		Title:          defaultTitle(id),
		Status:         StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func defaultTitle(id string) string {
	switch id {
	case GlobalDocumentsID:
		return "Global Documents"
	default:
		return "Tender " + id
	}
}

// CreateInput holds fields for a new tender.
type CreateInput struct {
	Title        string
	Description  string
	Budget       string
	Deadline     *time.Time
	Requirements []string
}

// Create stores a new tender with a generated id.
func (s *Service) Create(ctx context.Context, in CreateInput) (Tender, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Tender{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := s.EnsureOrganization(ctx, ""); err != nil {
		return Tender{}, fmt.Errorf("ensure organization: %w", err)
	}
	now := s.now()
	t := Tender{
		ID:             uuid.NewString(),
		OrganizationID: s.OrganizationID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Status:         StatusOpen,
		Budget:         strings.TrimSpace(in.Budget),
		Deadline:       in.Deadline,
		Requirements:   cleanList(in.Requirements),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return Tender{}, err
	}
	return t, nil
}

// Get returns one tender.
func (s *Service) Get(ctx context.Context, id string) (Tender, error) {
	return s.Repo.Get(ctx, id)
}

// List returns the organization's tenders, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Tender, error) {
	return s.Repo.List(ctx, s.OrganizationID, limit, offset)
}

// Update applies a patch to a tender.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Tender, error) {
	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Tender{}, err
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Tender{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		if !validStatus(*p.Status) {
			return Tender{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *p.Status)
		}
		t.Status = *p.Status
	}
	if p.Budget != nil {
		t.Budget = strings.TrimSpace(*p.Budget)
	}
	if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}
	if p.Requirements != nil {
		t.Requirements = cleanList(*p.Requirements)
	}
	t.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, t); err != nil {
		return Tender{}, err
	}
	return t, nil
}

// Delete removes a tender. The global documents pool cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == GlobalDocumentsID {
		return ErrProtected
	}
	return s.Repo.Delete(ctx, id)
}

// ApplyAssessment overwrites the tender's requirements and scores.
func (s *Service) ApplyAssessment(ctx context.Context, id string, requirements []string, a scoring.Assessment) error {
	return s.Repo.ApplyAssessment(ctx, id, cleanList(requirements), a, s.now())
}

// RunGapAnalysis re-scores the requirements stored on a tender.
func (s *Service) RunGapAnalysis(ctx context.Context, id string) (Tender, error) {
	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Tender{}, err
	}
	if s.Scorer == nil {
		return Tender{}, errors.New("scorer not configured")
	}
	a, err := s.Scorer.Assess(ctx, t.Requirements)
	if err != nil {
		if errors.Is(err, scoring.ErrNoRequirements) {
			return Tender{}, fmt.Errorf("%w: tender has no requirements", ErrInvalidInput)
		}
		return Tender{}, err
	}
	if err := s.ApplyAssessment(ctx, id, t.Requirements, a); err != nil {
		return Tender{}, err
	}
	return s.Repo.Get(ctx, id)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
