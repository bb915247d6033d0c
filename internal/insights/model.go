package insights

import "time"

// Insight is a fact derived from a document's text.
type Insight struct {
	ID         string
	TenderID   string
	DocumentID string
	Kind       string
	Content    string
	CreatedAt  time.Time
}
