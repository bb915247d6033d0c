package tenders

import (
	"context"
	"sort"
	"sync"
	"time"

	"tender-backend/internal/scoring"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	orgs    map[string]Organization
	tenders map[string]Tender
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		orgs:    make(map[string]Organization),
		tenders: make(map[string]Tender),
	}
}

func (r *MemoryRepo) EnsureOrganization(ctx context.Context, org Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[org.ID]; !ok {
		r.orgs[org.ID] = org
	}
	return nil
}

func (r *MemoryRepo) ConnectOrCreate(ctx context.Context, t Tender) (Tender, error) {
	if err := ctx.Err(); err != nil {
		return Tender{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.tenders[t.ID]; ok {
		return cloneTender(existing), nil
	}
	if _, ok := r.orgs[t.OrganizationID]; !ok {
		return Tender{}, ErrInvalidInput
	}
	r.tenders[t.ID] = cloneTender(t)
	return cloneTender(t), nil
}

func (r *MemoryRepo) Create(ctx context.Context, t Tender) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenders[t.ID]; ok {
		return ErrInvalidInput
	}
	if _, ok := r.orgs[t.OrganizationID]; !ok {
		return ErrInvalidInput
	}
	r.tenders[t.ID] = cloneTender(t)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Tender, error) {
	if err := ctx.Err(); err != nil {
		return Tender{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenders[id]
	if !ok {
		return Tender{}, ErrNotFound
	}
	return cloneTender(t), nil
}

// List returns tenders of an organization, newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, organizationID string, limit, offset int) ([]Tender, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	out := make([]Tender, 0, len(r.tenders))
	for _, t := range r.tenders {
		if t.OrganizationID == organizationID {
			out = append(out, cloneTender(t))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Tender{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) Update(ctx context.Context, t Tender) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenders[t.ID]; !ok {
		return ErrNotFound
	}
	r.tenders[t.ID] = cloneTender(t)
	return nil
}

func (r *MemoryRepo) ApplyAssessment(ctx context.Context, id string, requirements []string, a scoring.Assessment, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenders[id]
	if !ok {
		return ErrNotFound
	}
	applyAssessment(&t, requirements, a, at)
	r.tenders[id] = cloneTender(t)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenders[id]; !ok {
		return ErrNotFound
	}
	delete(r.tenders, id)
	return nil
}

func applyAssessment(t *Tender, requirements []string, a scoring.Assessment, at time.Time) {
	win := float64(a.WinningProbability)
	score := float64(a.CapabilityScore)
	matched := a.MatchedRequirements
	total := a.TotalRequirements
	t.Requirements = append([]string(nil), requirements...)
	t.WinProbability = &win
	t.CapabilityScore = &score
	t.MatchedRequirements = &matched
	t.TotalRequirements = &total
	t.Strengths = append([]string(nil), a.Strengths...)
	t.Weaknesses = append([]string(nil), a.Weaknesses...)
	t.Recommendations = append([]string(nil), a.Recommendations...)
	t.GapAnalysis = a.GapAnalysis
	t.UpdatedAt = at
}

func cloneTender(t Tender) Tender {
	t.Requirements = append([]string(nil), t.Requirements...)
	t.Strengths = append([]string(nil), t.Strengths...)
	t.Weaknesses = append([]string(nil), t.Weaknesses...)
	t.Recommendations = append([]string(nil), t.Recommendations...)
	return t
}
