package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID           string    `json:"id"`
	TenderID     string    `json:"tenderId"`
	FileName     string    `json:"filename"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	CloudURL     string    `json:"cloudUrl,omitempty"`
	Category     string    `json:"category"`
	DocumentType string    `json:"documentType"`
	Summary      string    `json:"summary,omitempty"`
	Text         string    `json:"text,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toResponse(doc Document, withText bool) DocumentResponse {
	resp := DocumentResponse{
		ID:           doc.ID,
		TenderID:     doc.TenderID,
		FileName:     doc.FileName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		CloudURL:     doc.CloudURL,
		Category:     doc.Category,
		DocumentType: doc.DocumentType,
		Summary:      doc.Summary,
		CreatedAt:    doc.CreatedAt,
	}
	if withText {
		resp.Text = doc.Text
	}
	return resp
}
