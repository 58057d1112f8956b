package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/telemetry"
)

func TestRecoveryWritesErrorBody(t *testing.T) {
	prev := telemetry.SetOutput(io.Discard)
	defer telemetry.SetOutput(prev)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"internal_error"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestRequestIDReuse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFromContext(c)) })

	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{name: "safe id", header: "req-123_a.b", reused: true},
		{name: "missing", header: ""},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLen+1)},
		{name: "unsafe characters", header: "abc\"<script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-Id", tt.header)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			got := resp.Body.String()
			if got == "" || resp.Header().Get("X-Request-Id") != got {
				t.Fatalf("header and context id differ: %q vs %q", resp.Header().Get("X-Request-Id"), got)
			}
			if (got == tt.header) != tt.reused {
				t.Fatalf("reuse mismatch: header %q, got %q", tt.header, got)
			}
		})
	}
}
