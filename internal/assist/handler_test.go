package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/documents"
	"tender-backend/internal/llm"
	"tender-backend/internal/scoring"
	"tender-backend/internal/tenders"
)

type recordingLLM struct {
	out  string
	err  error
	reqs []llm.Request
}

func (r *recordingLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	r.reqs = append(r.reqs, req)
	return r.out, r.err
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	tenderSvc := tenders.NewService(tenders.NewMemoryRepo(), scoring.NewKeywordScorer(nil), "demo_org")
	docSvc := &documents.Service{Repo: documents.NewMemoryRepo()}
	return &Service{LLM: client, Tenders: tenderSvc, Documents: docSvc}
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/ai"))
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSummarizeNotConfigured(t *testing.T) {
	r := newTestRouter(newTestService(t, llm.PlaceholderClient{}))
	w := post(r, "/api/ai/summarize", `{"text":"hello"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	r := newTestRouter(newTestService(t, &recordingLLM{out: "x"}))
	w := post(r, "/api/ai/summarize", `{"text":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSummarizeReturnsSummary(t *testing.T) {
	fake := &recordingLLM{out: "  - point one  "}
	r := newTestRouter(newTestService(t, fake))
	w := post(r, "/api/ai/summarize", `{"text":"long tender text"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["summary"] != "- point one" {
		t.Fatalf("summary = %q", resp["summary"])
	}
}

func TestProposalUsesTenderAndSummaries(t *testing.T) {
	fake := &recordingLLM{out: "## Executive Summary\nWe deliver."}
	svc := newTestService(t, fake)
	ctx := context.Background()
	tender, err := svc.Tenders.Create(ctx, tenders.CreateInput{Title: "N2 Highway", Requirements: []string{"ISO 9001"}})
	if err != nil {
		t.Fatalf("create tender: %v", err)
	}
	if _, err := svc.Documents.Create(ctx, documents.Document{TenderID: tender.ID, FileName: "rfp.pdf", DocumentType: "Request for Proposal", Summary: "Road works"}); err != nil {
		t.Fatalf("create doc: %v", err)
	}
	if _, err := svc.Documents.Create(ctx, documents.Document{TenderID: tenders.GlobalDocumentsID, FileName: "profile.pdf", DocumentType: "Company Profile", Summary: "20 years of civils"}); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	r := newTestRouter(svc)
	w := post(r, "/api/ai/proposal", fmt.Sprintf(`{"tenderId":%q,"instructions":"Keep it short"}`, tender.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(fake.reqs) != 1 {
		t.Fatalf("expected one LLM call, got %d", len(fake.reqs))
	}
	prompt := fake.reqs[0].Prompt
	for _, want := range []string{"Executive Summary", "N2 Highway", "- ISO 9001", "Road works", "20 years of civils", "Keep it short"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestProposalUnknownTender(t *testing.T) {
	r := newTestRouter(newTestService(t, &recordingLLM{out: "x"}))
	w := post(r, "/api/ai/proposal", `{"tenderId":"missing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStudyToolsValidatesTool(t *testing.T) {
	r := newTestRouter(newTestService(t, &recordingLLM{out: "x"}))
	w := post(r, "/api/ai/study-tools", `{"text":"abc","tool":"poster"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStudyToolsQuizRequestsJSON(t *testing.T) {
	fake := &recordingLLM{out: "```json\n{\"questions\":[]}\n```"}
	r := newTestRouter(newTestService(t, fake))
	w := post(r, "/api/ai/study-tools", `{"text":"Section 3 covers safety.","tool":"quiz"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !fake.reqs[0].JSON {
		t.Fatal("expected JSON request for quiz")
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["content"] != `{"questions":[]}` {
		t.Fatalf("content = %q", resp["content"])
	}
}

func TestSearchProviderFailure(t *testing.T) {
	r := newTestRouter(newTestService(t, &recordingLLM{err: errors.New("boom")}))
	w := post(r, "/api/ai/search", `{"query":"CIDB grading for R10m roads"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	r := newTestRouter(newTestService(t, &recordingLLM{out: "x"}))
	w := post(r, "/api/ai/search", `{"query":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
