package tenders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"tender-backend/internal/scoring"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const tenderColumns = `id, organization_id, title, description, status, budget, deadline, requirements,
    win_probability, capability_score, matched_requirements, total_requirements,
    strengths, weaknesses, recommendations, gap_analysis, created_at, updated_at`

// EnsureOrganization inserts the organization unless it already exists.
func (r *PGRepo) EnsureOrganization(ctx context.Context, org Organization) error {
	const query = `
INSERT INTO organizations (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query, org.ID, org.Name, org.CreatedAt)
	return err
}

// ConnectOrCreate inserts the tender unless it already exists, then returns the stored row.
func (r *PGRepo) ConnectOrCreate(ctx context.Context, t Tender) (Tender, error) {
	const query = `
INSERT INTO tenders (id, organization_id, title, description, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query,
		t.ID, t.OrganizationID, t.Title, t.Description, t.Status, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return Tender{}, err
	}
	return r.Get(ctx, t.ID)
}

// Create inserts a new tender.
func (r *PGRepo) Create(ctx context.Context, t Tender) error {
	const query = `
INSERT INTO tenders (id, organization_id, title, description, status, budget, deadline, requirements, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	reqs, err := marshalList(t.Requirements)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		t.ID,
		t.OrganizationID,
		t.Title,
		t.Description,
		t.Status,
		nullString(t.Budget),
		nullTime(t.Deadline),
		reqs,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

// Get fetches a tender by id.
func (r *PGRepo) Get(ctx context.Context, id string) (Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id = $1`
	t, err := scanTender(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tender{}, ErrNotFound
		}
		return Tender{}, err
	}
	return t, nil
}

// List returns tenders of an organization, newest first.
func (r *PGRepo) List(ctx context.Context, organizationID string, limit, offset int) ([]Tender, error) {
	query := `SELECT ` + tenderColumns + `
FROM tenders
WHERE organization_id = $1
ORDER BY created_at DESC, id ASC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Tender{}
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of a tender.
func (r *PGRepo) Update(ctx context.Context, t Tender) error {
	const query = `
UPDATE tenders
SET title = $2, description = $3, status = $4, budget = $5, deadline = $6, requirements = $7, updated_at = $8
WHERE id = $1`
	reqs, err := marshalList(t.Requirements)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, t.Status, nullString(t.Budget), nullTime(t.Deadline), reqs, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ApplyAssessment overwrites requirement and score fields; prior values are discarded.
func (r *PGRepo) ApplyAssessment(ctx context.Context, id string, requirements []string, a scoring.Assessment, at time.Time) error {
	const query = `
UPDATE tenders
SET requirements = $2,
    win_probability = $3,
    capability_score = $4,
    matched_requirements = $5,
    total_requirements = $6,
    strengths = $7,
    weaknesses = $8,
    recommendations = $9,
    gap_analysis = $10,
    updated_at = $11
WHERE id = $1`
	lists := make([][]byte, 0, 4)
	for _, l := range [][]string{requirements, a.Strengths, a.Weaknesses, a.Recommendations} {
		raw, err := marshalList(l)
		if err != nil {
			return err
		}
		lists = append(lists, raw)
	}
	res, err := r.DB.ExecContext(ctx, query,
		id,
		lists[0],
		float64(a.WinningProbability),
		float64(a.CapabilityScore),
		a.MatchedRequirements,
		a.TotalRequirements,
		lists[1],
		lists[2],
		lists[3],
		nullString(a.GapAnalysis),
		at,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Delete removes a tender; documents, messages and insights cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tenders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTender(row rowScanner) (Tender, error) {
	var t Tender
	var budget, gap sql.NullString
	var deadline sql.NullTime
	var win, score sql.NullFloat64
	var matched, total sql.NullInt64
	var reqs, strengths, weaknesses, recs []byte
	if err := row.Scan(
		&t.ID,
		&t.OrganizationID,
		&t.Title,
		&t.Description,
		&t.Status,
		&budget,
		&deadline,
		&reqs,
		&win,
		&score,
		&matched,
		&total,
		&strengths,
		&weaknesses,
		&recs,
		&gap,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return Tender{}, err
	}
	t.Budget = budget.String
	t.GapAnalysis = gap.String
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if win.Valid {
		v := win.Float64
		t.WinProbability = &v
	}
	if score.Valid {
		v := score.Float64
		t.CapabilityScore = &v
	}
	if matched.Valid {
		v := int(matched.Int64)
		t.MatchedRequirements = &v
	}
	if total.Valid {
		v := int(total.Int64)
		t.TotalRequirements = &v
	}
	var err error
	if t.Requirements, err = unmarshalList(reqs); err != nil {
		return Tender{}, err
	}
	if t.Strengths, err = unmarshalList(strengths); err != nil {
		return Tender{}, err
	}
	if t.Weaknesses, err = unmarshalList(weaknesses); err != nil {
		return Tender{}, err
	}
	if t.Recommendations, err = unmarshalList(recs); err != nil {
		return Tender{}, err
	}
	return t, nil
}

func marshalList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

func unmarshalList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
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
