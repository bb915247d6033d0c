package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCreatedSetsLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/tenders", func(c *gin.Context) {
		Created(c, "/api/tenders/t1", gin.H{"id": "t1"})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/tenders", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/api/tenders/t1" {
		t.Fatalf("unexpected Location %q", got)
	}
}

func TestNoContentStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ran := false
	r.DELETE("/api/documents/:id", func(c *gin.Context) { NoContent(c) }, func(c *gin.Context) { ran = true })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/documents/d1", nil))
	if resp.Code != http.StatusNoContent || resp.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", resp.Code, resp.Body.String())
	}
	if ran {
		t.Fatal("handlers after NoContent must not run")
	}
}
