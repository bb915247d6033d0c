package chat

import "context"

// MessagesRepo defines persistence operations for chat messages.
type MessagesRepo interface {
	Append(ctx context.Context, msg Message) error
	ListByTender(ctx context.Context, tenderID string, limit int) ([]Message, error)
}
