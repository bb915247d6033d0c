package chat

import (
	"errors"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a tender's chat log. Messages are append-only.
type Message struct {
	ID        string
	TenderID  string
	Role      string
	Content   string
	CreatedAt time.Time
}

var ErrInvalidInput = errors.New("invalid input")

// UploadNotification renders the assistant message posted after a tender document
// is summarized.
func UploadNotification(fileName, summary string) string {
	return "📄 **Document Uploaded: " + fileName + "**\n\n" + summary
}
