package tenders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func TestHandlerCreateAndGet(t *testing.T) {
	router := newTestRouter(newTestService())

	body := bytes.NewBufferString(`{"title":"Highway upgrade","requirements":["road works"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/tenders", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created TenderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Status != StatusOpen {
		t.Fatalf("unexpected tender: %#v", created)
	}
	if loc := resp.Header().Get("Location"); loc != "/api/tenders/"+created.ID {
		t.Fatalf("unexpected Location %q", loc)
	}

	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, httptest.NewRequest(http.MethodGet, "/api/tenders/"+created.ID, nil))
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.Code)
	}
}

func TestHandlerCreateRequiresTitle(t *testing.T) {
	router := newTestRouter(newTestService())
	req := httptest.NewRequest(http.MethodPost, "/api/tenders", bytes.NewBufferString(`{"title":" "}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerGetMissing(t *testing.T) {
	router := newTestRouter(newTestService())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/tenders/missing", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["code"] != "not_found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHandlerDeleteGlobalDocuments(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(svc)
	if _, err := svc.ConnectOrCreate(context.Background(), GlobalDocumentsID); err != nil {
		t.Fatalf("ConnectOrCreate: %v", err)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/tenders/"+GlobalDocumentsID, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
