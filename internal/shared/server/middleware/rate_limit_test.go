package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitDeployStricterThanGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(Identity())
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: func(c *gin.Context) string { return c.FullPath() },
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"/deploy":   PerMinute(1),
			"/generate": PerMinute(3),
		},
	}))
	r.POST("/deploy", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/generate", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("X-Guest-Id", "g1")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	for i := 0; i < 3; i++ {
		if code := do(http.MethodPost, "/generate"); code != http.StatusOK {
			t.Fatalf("generate %d expected 200, got %d", i+1, code)
		}
	}
	if code := do(http.MethodPost, "/deploy"); code != http.StatusOK {
		t.Fatalf("first deploy expected 200, got %d", code)
	}
	if code := do(http.MethodPost, "/deploy"); code != http.StatusTooManyRequests {
		t.Fatalf("second deploy expected 429, got %d", code)
	}
	for i := 0; i < 5; i++ {
		if code := do(http.MethodGet, "/health"); code != http.StatusOK {
			t.Fatalf("unlimited route expected 200, got %d", code)
		}
	}
}

func TestRateLimit429Body(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(Identity())
	r.Use(RateLimit(RateLimitConfig{
		Limiter: limiter,
		Rules:   map[string]RateLimitRule{"DEFAULT": {Rate: 1, Burst: 1}},
	}))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/limited", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", first.Code)
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/limited", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp.Header().Get("Retry-After"))
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["code"] != "rate_limited" || payload["detail"] == "" {
		t.Fatalf("unexpected body %v", payload)
	}
	if _, ok := payload["retry_after_ms"]; !ok {
		t.Fatalf("expected retry_after_ms in response")
	}
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := PerMinute(2)

	limiter.Allow("guest:a|deploy", rule)
	limiter.Allow("guest:b|deploy", rule)
	if got := limiter.Len(); got != 2 {
		t.Fatalf("expected 2 buckets, got %d", got)
	}

	now = now.Add(bucketIdleTTL + time.Second)
	if ok, _ := limiter.Allow("guest:c|deploy", rule); !ok {
		t.Fatalf("expected fresh caller to be allowed")
	}
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expected idle buckets to be dropped, got %d", got)
	}
}
