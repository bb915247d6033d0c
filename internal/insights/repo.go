package insights

import "context"

// InsightsRepo defines persistence operations for insights.
type InsightsRepo interface {
	CreateBatch(ctx context.Context, items []Insight) error
	ListByTender(ctx context.Context, tenderID, kind string) ([]Insight, error)
}
