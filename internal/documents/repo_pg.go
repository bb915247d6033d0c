package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, tender_id, filename, mime_type, size_bytes, text, cloud_url, storage_key, category, document_type, summary, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    tender_id,
    filename,
    mime_type,
    size_bytes,
    text,
    cloud_url,
    storage_key,
    category,
    document_type,
    summary,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.TenderID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.Text,
		nullString(doc.CloudURL),
		nullString(doc.StorageKey),
		doc.Category,
		doc.DocumentType,
		nullString(doc.Summary),
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns matching documents, newest first.
func (r *PGRepo) List(ctx context.Context, f Filter, limit, offset int) ([]Document, error) {
	var where []string
	var args []any
	if f.TenderID != "" {
		args = append(args, f.TenderID)
		where = append(where, fmt.Sprintf("tender_id = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateSummary sets the generated summary of a document.
func (r *PGRepo) UpdateSummary(ctx context.Context, id, summary string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE documents SET summary = $2 WHERE id = $1`, id, nullString(summary))
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Delete removes a document row; insights cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// CountByCategory returns the number of documents per category.
func (r *PGRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT category, COUNT(*) FROM documents GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, err
		}
		out[category] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var cloudURL, storageKey, summary sql.NullString
	if err := row.Scan(
		&doc.ID,
		&doc.TenderID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.Text,
		&cloudURL,
		&storageKey,
		&doc.Category,
		&doc.DocumentType,
		&summary,
		&doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	doc.CloudURL = cloudURL.String
	doc.StorageKey = storageKey.String
	doc.Summary = summary.String
	return doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
