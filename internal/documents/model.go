package documents

import "time"

// Document is an uploaded file attached to exactly one tender.
type Document struct {
	ID           string
	TenderID     string
	FileName     string
	MimeType     string
	SizeBytes    int64
	Text         string
	CloudURL     string
	StorageKey   string
	Category     string
	DocumentType string
	Summary      string
	CreatedAt    time.Time
}

// Filter narrows a document listing. Empty fields match everything.
type Filter struct {
	TenderID string
	Category string
}

func (f Filter) matches(d Document) bool {
	if f.TenderID != "" && d.TenderID != f.TenderID {
		return false
	}
	if f.Category != "" && d.Category != f.Category {
		return false
	}
	return true
}
