package integrations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newDemoRegistry(t)).RegisterRoutes(r.Group("/api"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListIntegrations(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/integrations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var items []Integration
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 integrations, got %d", len(items))
	}
}

func TestConnectMissingFieldReturns400(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/integrations/sharepoint/connect", `{"credentials":{"site_url":"https://acme.sharepoint.com"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Details map[string]string `json:"details"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Details["field"] != "client_id" {
		t.Fatalf("unexpected details: %v", resp.Details)
	}
}

func TestSyncRequiresConnection(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/integrations/slack/sync", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestConnectThenSync(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/integrations/salesforce/connect", `{"credentials":{"instance_url":"https://acme.my.salesforce.com","username":"bids","api_token":"t"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("connect: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/api/integrations/salesforce/sync", "")
	if w.Code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d", w.Code)
	}
	var resp syncResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.ItemsSynced != 8 || resp.Integration.Status != StatusConnected {
		t.Fatalf("unexpected sync response: %#v", resp)
	}
}

func TestUnknownIntegrationReturns404(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/integrations/dropbox/disconnect", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
