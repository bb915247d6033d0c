package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func aiGroup(c *gin.Context) string {
	if strings.HasPrefix(c.FullPath(), "/api/ai/") {
		return "AI"
	}
	return ""
}

func TestRateLimitOnlyAppliesToConfiguredGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: aiGroup,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"AI": {Rate: 1, Burst: 2},
		},
	}))
	r.POST("/api/ai/summarize", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/tenders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/tenders", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("unlimited request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/ai/summarize", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("ai request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/ai/summarize", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("ai request 3 expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: aiGroup,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"AI": {Rate: 1, Burst: 1},
		},
	}))
	r.POST("/api/ai/search", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, httptest.NewRequest(http.MethodPost, "/api/ai/search", nil))
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}
	if got := resp1.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}

	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, httptest.NewRequest(http.MethodPost, "/api/ai/search", nil))
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp2.Header().Get("Retry-After"))
	}

	var payload struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "rate_limited" {
		t.Fatalf("expected code=rate_limited, got %v", payload.Code)
	}
	if payload.Details["retryAfterMs"] != float64(1000) {
		t.Fatalf("expected retryAfterMs 1000, got %v", payload.Details["retryAfterMs"])
	}
}

func TestRateLimitKeysCallersSeparately(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: aiGroup,
		KeyFor:   func(c *gin.Context) string { return c.GetHeader("X-Client") },
		Limiter:  NewRateLimiter(func() time.Time { return now }),
		Rules:    map[string]RateLimitRule{"AI": {Rate: 1, Burst: 1}},
	}))
	r.POST("/api/ai/summarize", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/summarize", nil)
		req.Header.Set("X-Client", client)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}
	if send("a") != http.StatusOK || send("b") != http.StatusOK {
		t.Fatal("first request per caller should pass")
	}
	if send("a") != http.StatusTooManyRequests {
		t.Fatal("second request for caller a should be limited")
	}
}

func TestRateLimiterRefillsAndPrunes(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if !l.Allow("k", rule).Allowed {
		t.Fatal("expected first call allowed")
	}
	d := l.Allow("k", rule)
	if d.Allowed || d.RetryAfter != 500*time.Millisecond {
		t.Fatalf("unexpected decision %+v", d)
	}
	now = now.Add(500 * time.Millisecond)
	if !l.Allow("k", rule).Allowed {
		t.Fatal("expected refill after 500ms")
	}

	now = now.Add(time.Minute)
	for i := 0; i < pruneEvery; i++ {
		l.Allow("other", rule)
		now = now.Add(time.Second)
	}
	if l.Len() != 1 {
		t.Fatalf("expected idle bucket pruned, have %d", l.Len())
	}
}
