package chat

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of MessagesRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Message // tenderId -> messages in append order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Message)}
}

func (r *MemoryRepo) Append(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[msg.TenderID] = append(r.data[msg.TenderID], msg)
	return nil
}

// ListByTender returns the oldest limit messages in append order.
func (r *MemoryRepo) ListByTender(ctx context.Context, tenderID string, limit int) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.data[tenderID]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
