package portfolio

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validationf("resume data is required"), http.StatusBadRequest, "validation_error"},
		{"unknown template", fmt.Errorf("%w: %q", ErrUnknownTemplate, "neon"), http.StatusBadRequest, "unknown_template"},
		{"unknown frontend", ErrUnknownFrontendType, http.StatusBadRequest, "unknown_frontend_type"},
		{"render", fmt.Errorf("render index.html: %w", ErrRender), http.StatusUnprocessableEntity, "render_error"},
		{"packaging", ErrPackaging, http.StatusInternalServerError, "packaging_error"},
		{"github", &ProviderError{Provider: ProviderGitHub, Step: "create repository", Err: errors.New("401")}, http.StatusBadGateway, "github_error"},
		{"vercel wrapped", fmt.Errorf("deploy: %w", &ProviderError{Provider: ProviderVercel, Step: "create project"}), http.StatusBadGateway, "vercel_error"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Fatalf("StatusFor = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestParseSelection(t *testing.T) {
	if sel := ParseSelection("", " "); sel != DefaultSelection() {
		t.Fatalf("expected default selection, got %+v", sel)
	}
	sel := ParseSelection(" Terminal ", "REACT")
	if sel.TemplateID != TemplateTerminal || sel.FrontendType != FrontendReact {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if sel := ParseSelection("neon", "html"); sel.TemplateID != "neon" {
		t.Fatalf("unknown template should be preserved, got %+v", sel)
	}
}
