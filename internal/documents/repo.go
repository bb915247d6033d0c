package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]Document, error)
	UpdateSummary(ctx context.Context, id, summary string) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context) (map[string]int, error)
}
