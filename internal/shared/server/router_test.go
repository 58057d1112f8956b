package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/deploy"
	"portfolio-backend/internal/generated"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/lock"
	"portfolio-backend/internal/shared/storage/object/memory"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/templates"
	"portfolio-backend/internal/uploads"
)

const generateBody = `{"parsed_data":{"name":"Ada","skills":["Go"]},"template":"classic","frontend_type":"html"}`

func newTestRouter(t *testing.T, cfg config.Config, locker lock.Locker, healthSvc *health.Service) *gin.Engine {
	t.Helper()
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	reg, err := templates.Default()
	if err != nil {
		t.Fatalf("templates.Default: %v", err)
	}
	store := memory.New()
	genSvc := &generated.Service{Catalog: reg, Repo: generated.NewMemoryRepo(), Store: store}
	depSvc := &deploy.Service{Orchestrator: &deploy.Orchestrator{Catalog: reg}, Repo: deploy.NewMemoryRepo()}

	return NewRouter(RouterDeps{
		Config:          cfg,
		Health:          healthSvc,
		Templates:       reg,
		Locker:          locker,
		UploadHandler:   uploads.NewHandler(&uploads.Service{Store: store}),
		GenerateHandler: generated.NewHandler(genSvc),
		DeployHandler:   deploy.NewHandler(depSvc, ""),
	})
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPublicRoutes(t *testing.T) {
	r := newTestRouter(t, config.Config{}, lock.NewMemory(), nil)

	tests := []struct {
		name   string
		path   string
		status int
		want   string
	}{
		{name: "banner", path: "/", status: http.StatusOK, want: `"message":"Resume2Portfolio Backend"`},
		{name: "health", path: "/health", status: http.StatusOK, want: `"ok":true`},
		{name: "templates", path: "/templates", status: http.StatusOK, want: `"id":"terminal"`},
		{name: "metrics", path: "/metrics", status: http.StatusOK, want: "portfolio_generate_total"},
		{name: "unknown", path: "/nope", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(r, http.MethodGet, tt.path, "")
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if tt.want != "" && !strings.Contains(resp.Body.String(), tt.want) {
				t.Fatalf("expected body to contain %q, got %s", tt.want, resp.Body.String())
			}
			if resp.Header().Get("X-Request-Id") == "" {
				t.Fatalf("expected request id header")
			}
		})
	}
}

func TestHealthFailureIs503(t *testing.T) {
	svc := health.NewService()
	svc.Register("database", func(context.Context) error { return errors.New("down") })
	r := newTestRouter(t, config.Config{}, nil, svc)

	resp := serve(r, http.MethodGet, "/health", "")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	var report health.Report
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.OK || report.Checks["database"] != "down" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestGenerateIsRateLimited(t *testing.T) {
	r := newTestRouter(t, config.Config{GeneratePerMinute: 1}, lock.NewMemory(), nil)

	if resp := serve(r, http.MethodPost, "/generate", generateBody); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp := serve(r, http.MethodPost, "/generate", generateBody)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	// Reads are outside the generate group.
	if resp := serve(r, http.MethodGet, "/portfolios", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for history, got %d", resp.Code)
	}
}

func TestDeployRejectsConcurrentRequest(t *testing.T) {
	locker := lock.NewMemory()
	r := newTestRouter(t, config.Config{}, locker, nil)

	release, err := locker.Acquire(context.Background(), "deploy|guest:g1", time.Minute)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	resp := serve(r, http.MethodPost, "/deploy", `{"parsed_data":{"name":"Ada"},"github_token":"ghp","vercel_token":"vc"}`)
	if resp.Code != http.StatusConflict || !strings.Contains(resp.Body.String(), `"code":"in_flight"`) {
		t.Fatalf("expected 409 in_flight, got %d: %s", resp.Code, resp.Body.String())
	}
	release()

	resp = serve(r, http.MethodPost, "/deploy", `{"parsed_data":{"name":"Ada"},"github_token":"ghp"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
