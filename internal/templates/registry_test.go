package templates

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"portfolio-backend/internal/portfolio"
)

func TestDefaultRegistryArtifactCounts(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	tests := []struct {
		template portfolio.TemplateID
		frontend portfolio.FrontendType
		want     []string
	}{
		{template: "classic", frontend: "html", want: []string{"index.html", "styles.css"}},
		{template: "glassmorphism", frontend: "html", want: []string{"index.html", "styles.css"}},
		{template: "terminal", frontend: "react", want: []string{"src/App.jsx", "src/styles.css", "src/index.js", "public/index.html", "package.json", "vercel.json"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.template)+"/"+string(tt.frontend), func(t *testing.T) {
			arts, err := reg.Artifacts(tt.template, tt.frontend)
			if err != nil {
				t.Fatalf("Artifacts: %v", err)
			}
			if len(arts) != len(tt.want) {
				t.Fatalf("expected %d artifacts, got %d", len(tt.want), len(arts))
			}
			for i, p := range tt.want {
				if arts[i].Path != p {
					t.Fatalf("artifact %d: expected %s, got %s", i, p, arts[i].Path)
				}
			}
		})
	}
}

func TestArtifactsUnknownSelection(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, err := reg.Artifacts("neon", "react"); !errors.Is(err, portfolio.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if _, err := reg.Artifacts("classic", "vue"); !errors.Is(err, portfolio.ErrUnknownFrontendType) {
		t.Fatalf("expected ErrUnknownFrontendType, got %v", err)
	}
}

func TestArtifactsReturnsCopy(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	first, _ := reg.Artifacts("classic", "html")
	first[0].Content = "mutated"
	second, _ := reg.Artifacts("classic", "html")
	if second[0].Content == "mutated" {
		t.Fatal("registry content was mutated through returned slice")
	}
}

func TestTerminalVariantFramesHeadersAsCommands(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	for _, frontend := range []portfolio.FrontendType{"html", "react"} {
		arts, err := reg.Artifacts("terminal", frontend)
		if err != nil {
			t.Fatalf("Artifacts: %v", err)
		}
		if !strings.Contains(arts[0].Content, "user@{{name}}:~$ whoami") {
			t.Fatalf("%s: expected shell prompt header", frontend)
		}
	}
}

func TestListFollowsManifestOrder(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	list := reg.List()
	if len(list) != 3 || list[0].ID != "classic" || list[2].ID != "terminal" {
		t.Fatalf("unexpected catalog: %+v", list)
	}
	if len(list[1].Frontends) != 2 {
		t.Fatalf("expected both frontends, got %v", list[1].Frontends)
	}
}

func TestLoadRejectsMissingPlaceholders(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.yaml": {Data: []byte(`
version: 1
templates:
  - id: broken
    frontends:
      html: [index.html]
`)},
		"assets/broken/html/index.html": {Data: []byte("<h1>{{name}}</h1>")},
	}
	_, err := Load(fsys)
	if err == nil || !strings.Contains(err.Error(), "missing placeholders") {
		t.Fatalf("expected missing placeholders error, got %v", err)
	}
}
