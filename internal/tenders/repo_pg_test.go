package tenders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tender-backend/internal/scoring"
)

func TestPGRepoEnsureOrganization(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO organizations").
		WithArgs("demo_org", "Demo", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureOrganization(context.Background(), Organization{ID: "demo_org", Name: "Demo", CreatedAt: now}); err != nil {
		t.Fatalf("EnsureOrganization: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetScansNullableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	cols := []string{"id", "organization_id", "title", "description", "status", "budget", "deadline", "requirements",
		"win_probability", "capability_score", "matched_requirements", "total_requirements",
		"strengths", "weaknesses", "recommendations", "gap_analysis", "created_at", "updated_at"}
	mock.ExpectQuery("FROM tenders WHERE id = \\$1").
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"t1", "demo_org", "Highway", "", "open", nil, nil, []byte(`["ISO 9001"]`),
			72.0, nil, int64(1), int64(1),
			[]byte(`["Civil"]`), []byte(`[]`), nil, nil, now, now,
		))

	repo := &PGRepo{DB: db}
	got, err := repo.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.WinProbability == nil || *got.WinProbability != 72 {
		t.Fatalf("winProbability = %v", got.WinProbability)
	}
	if got.CapabilityScore != nil {
		t.Fatalf("capabilityScore should be nil, got %v", *got.CapabilityScore)
	}
	if len(got.Requirements) != 1 || len(got.Strengths) != 1 || got.Recommendations == nil {
		t.Fatalf("unexpected lists: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("FROM tenders WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoApplyAssessment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	a := scoring.Assessment{
		WinningProbability:  55,
		CapabilityScore:     100,
		MatchedRequirements: 1,
		TotalRequirements:   1,
		Strengths:           []string{"Civil"},
		GapAnalysis:         "Matched 1 of 1",
	}
	mock.ExpectExec("UPDATE tenders").
		WithArgs(
			"t1",
			[]byte(`["road works"]`),
			55.0,
			100.0,
			1,
			1,
			[]byte(`["Civil"]`),
			[]byte(`[]`),
			[]byte(`[]`),
			sqlmock.AnyArg(),
			now,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.ApplyAssessment(context.Background(), "t1", []string{"road works"}, a, now); err != nil {
		t.Fatalf("ApplyAssessment: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM tenders").WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	repo := &PGRepo{DB: db}
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
