package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for chat messages.
type Service struct {
	Repo MessagesRepo
	Now  func() time.Time
}

// Append stores a new message at the end of a tender's log.
func (s *Service) Append(ctx context.Context, tenderID, role, content string) (Message, error) {
	if strings.TrimSpace(tenderID) == "" || strings.TrimSpace(content) == "" {
		return Message{}, fmt.Errorf("%w: tender id and content are required", ErrInvalidInput)
	}
	if role != RoleUser && role != RoleAssistant {
		return Message{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	msg := Message{
		ID:        uuid.NewString(),
		TenderID:  tenderID,
		Role:      role,
		Content:   content,
		CreatedAt: now().UTC(),
	}
	if err := s.Repo.Append(ctx, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// NotifyUpload appends the assistant notification for a summarized document.
func (s *Service) NotifyUpload(ctx context.Context, tenderID, fileName, summary string) (Message, error) {
	return s.Append(ctx, tenderID, RoleAssistant, UploadNotification(fileName, summary))
}

// List returns a tender's messages oldest first.
func (s *Service) List(ctx context.Context, tenderID string, limit int) ([]Message, error) {
	return s.Repo.ListByTender(ctx, tenderID, limit)
}
