package insights

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo implements InsightsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateBatch inserts all items in one transaction.
func (r *PGRepo) CreateBatch(ctx context.Context, items []Insight) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO insights (id, tender_id, document_id, kind, content, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, in := range items {
		if _, err := tx.ExecContext(ctx, query, in.ID, in.TenderID, in.DocumentID, in.Kind, in.Content, in.CreatedAt); err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}
	return tx.Commit()
}

// ListByTender returns a tender's insights, optionally filtered by kind.
func (r *PGRepo) ListByTender(ctx context.Context, tenderID, kind string) ([]Insight, error) {
	query := `
SELECT id, tender_id, document_id, kind, content, created_at
FROM insights
WHERE tender_id = $1`
	args := []any{tenderID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Insight{}
	for rows.Next() {
		var in Insight
		if err := rows.Scan(&in.ID, &in.TenderID, &in.DocumentID, &in.Kind, &in.Content, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
