package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorBodyCarriesDetailCodeAndExtras(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/deploy", func(c *gin.Context) {
		Error(c, http.StatusBadGateway, "deploy_failed", "vercel create project failed", map[string]any{
			"repo_url": "https://github.com/ada/portfolio-ada-1",
			"detail":   "ignored",
		})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/deploy", nil))
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["detail"] != "vercel create project failed" || body["code"] != "deploy_failed" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["repo_url"] != "https://github.com/ada/portfolio-ada-1" {
		t.Fatalf("missing repo_url: %v", body)
	}
}

func TestAttachmentHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/download", func(c *gin.Context) {
		Attachment(c, "portfolio\"_classic\r\n.zip", "application/zip", []byte("PK"))
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/download", nil))
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="portfolio_classic.zip"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Header().Get("Content-Length") != "2" || resp.Header().Get("Content-Type") != "application/zip" {
		t.Fatalf("unexpected headers %v", resp.Header())
	}
}
