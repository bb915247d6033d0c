package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[doc.ID]; ok {
		return ErrInvalidInput
	}
	r.data[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns matching documents, newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, f Filter, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, d := range r.data {
		if f.matches(d) {
			docs = append(docs, d)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if offset >= len(docs) {
		return []Document{}, nil
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

func (r *MemoryRepo) UpdateSummary(ctx context.Context, id, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	doc.Summary = summary
	r.data[id] = doc
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, d := range r.data {
		out[d.Category]++
	}
	return out, nil
}
