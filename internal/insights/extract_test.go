package insights

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
)

const sampleTender = `REQUEST FOR PROPOSAL: N2 HIGHWAY REHABILITATION
Closing date: 14 March 2025 at 11:00
A compulsory briefing session will be held on 2025-02-20.
The estimated contract value is R 12,500,000.00 excluding VAT.
Bidders must be registered on the CIDB at grade 7CE or higher.
The contractor shall provide a safety plan.
Enquiries: procurement@sanral.example.co.za or Procurement@sanral.example.co.za.
Documents for 2025 are available online.`

func kinds(drafts []Draft, kind string) []string {
	var out []string
	for _, d := range drafts {
		if d.Kind == kind {
			out = append(out, d.Content)
		}
	}
	return out
}

func TestExtractFindsEachKind(t *testing.T) {
	drafts := Extract(sampleTender)

	deadlines := kinds(drafts, KindDeadline)
	if len(deadlines) != 2 || !strings.HasPrefix(deadlines[0], "Closing date: 14 March 2025") {
		t.Fatalf("deadlines = %#v", deadlines)
	}
	budgets := kinds(drafts, KindBudget)
	if len(budgets) != 1 || budgets[0] != "R 12,500,000.00" {
		t.Fatalf("budgets = %#v", budgets)
	}
	reqs := kinds(drafts, KindRequirement)
	if len(reqs) != 2 {
		t.Fatalf("requirements = %#v", reqs)
	}
	contacts := kinds(drafts, KindContact)
	if len(contacts) != 1 || contacts[0] != "procurement@sanral.example.co.za" {
		t.Fatalf("contacts = %#v", contacts)
	}
}

func TestExtractCapsPerKind(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "Item %d: the supplier must deliver unit %d on time.\n", i, i)
	}
	reqs := kinds(Extract(b.String()), KindRequirement)
	if len(reqs) != MaxPerKind {
		t.Fatalf("requirements = %d, want %d", len(reqs), MaxPerKind)
	}
}

func TestExtractClipsLongLinesOnRuneBoundary(t *testing.T) {
	line := "The supplier must xy " + strings.Repeat("é", 400)
	reqs := kinds(Extract(line), KindRequirement)
	if len(reqs) != 1 {
		t.Fatalf("requirements = %#v", reqs)
	}
	got := reqs[0]
	if !utf8.ValidString(got) {
		t.Fatalf("clipped content is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxContentRunes+1 {
		t.Fatalf("rune count = %d, want %d", n, maxContentRunes+1)
	}
	if !strings.HasSuffix(got, "é…") {
		t.Fatalf("expected ellipsis after the last full rune, got %q", got[len(got)-8:])
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract("   \n\n"); len(got) != 0 {
		t.Fatalf("expected no insights, got %#v", got)
	}
}

func TestRecordStoresDrafts(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	items, err := svc.Record(context.Background(), "t1", "doc-1", sampleTender)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	stored, _ := svc.List(context.Background(), "t1", "")
	if len(stored) != len(items) || len(items) == 0 {
		t.Fatalf("stored=%d items=%d", len(stored), len(items))
	}
	budgets, _ := svc.List(context.Background(), "t1", KindBudget)
	if len(budgets) != 1 || budgets[0].DocumentID != "doc-1" {
		t.Fatalf("budgets = %#v", budgets)
	}
}

func TestPGRepoCreateBatchUsesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO insights").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO insights").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	items := []Insight{{ID: "a", TenderID: "t", DocumentID: "d", Kind: KindBudget, Content: "R 1"}, {ID: "b", TenderID: "t", DocumentID: "d", Kind: KindContact, Content: "x@y.io"}}
	if err := repo.CreateBatch(context.Background(), items); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
