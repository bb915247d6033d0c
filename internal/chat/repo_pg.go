package chat

import (
	"context"
	"database/sql"
)

// PGRepo implements MessagesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a message.
func (r *PGRepo) Append(ctx context.Context, msg Message) error {
	const query = `
INSERT INTO messages (id, tender_id, role, content, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, msg.ID, msg.TenderID, msg.Role, msg.Content, msg.CreatedAt)
	return err
}

// ListByTender returns messages oldest first.
func (r *PGRepo) ListByTender(ctx context.Context, tenderID string, limit int) ([]Message, error) {
	const query = `
SELECT id, tender_id, role, content, created_at
FROM messages
WHERE tender_id = $1
ORDER BY created_at ASC, id ASC
LIMIT $2`
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.DB.QueryContext(ctx, query, tenderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.TenderID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
