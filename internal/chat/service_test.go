package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestUploadNotificationTemplate(t *testing.T) {
	got := UploadNotification("RFP_Highway_2025.pdf", "- Road upgrade")
	want := "📄 **Document Uploaded: RFP_Highway_2025.pdf**\n\n- Road upgrade"
	if got != want {
		t.Fatalf("UploadNotification = %q, want %q", got, want)
	}
}

func TestAppendKeepsOrder(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()
	if _, err := svc.NotifyUpload(ctx, "t1", "a.pdf", "first"); err != nil {
		t.Fatalf("NotifyUpload: %v", err)
	}
	if _, err := svc.Append(ctx, "t1", RoleUser, "second"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	msgs, err := svc.List(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != RoleAssistant || msgs[1].Content != "second" {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
}

func TestAppendValidates(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.Append(context.Background(), "t1", "system", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Append(context.Background(), "t1", RoleUser, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPGRepoAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	msg := Message{ID: "m1", TenderID: "t1", Role: RoleAssistant, Content: "hi", CreatedAt: time.Now().UTC()}
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(msg.ID, msg.TenderID, msg.Role, msg.Content, msg.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Append(context.Background(), msg); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &Service{Repo: NewMemoryRepo()}
	_, _ = svc.NotifyUpload(context.Background(), "t1", "a.pdf", "summary")
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/tenders/t1/messages", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["role"] != RoleAssistant {
		t.Fatalf("unexpected body: %v", body)
	}
}
