package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityResolution(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, OwnerIDFromContext(c))
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "user wins", headers: map[string]string{"X-User-Id": "u1", "X-Guest-Id": "g1"}, want: "user:u1"},
		{name: "guest", headers: map[string]string{"X-Guest-Id": " g1 "}, want: "guest:g1"},
		{name: "blank headers fall back to ip", headers: map[string]string{"X-User-Id": "  "}, want: "anon:192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if got := resp.Body.String(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOwnerIDFromContextNil(t *testing.T) {
	if got := OwnerIDFromContext(nil); got != "" {
		t.Fatalf("expected empty owner, got %q", got)
	}
}
