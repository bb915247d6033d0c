package insights

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of InsightsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Insight
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) CreateBatch(ctx context.Context, items []Insight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, items...)
	return nil
}

func (r *MemoryRepo) ListByTender(ctx context.Context, tenderID, kind string) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Insight{}
	for _, in := range r.data {
		if in.TenderID != tenderID {
			continue
		}
		if kind != "" && in.Kind != kind {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}
