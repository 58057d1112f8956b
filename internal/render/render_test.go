package render

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/templates"
)

var skillsCall = regexp.MustCompile(`JSON\.parse\('((?:[^'\\]|\\.)*)'\)\.join\(', '\)`)

func TestListTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		items []string
	}{
		{name: "empty", items: []string{}},
		{name: "plain", items: []string{"Go", "Rust"}},
		{name: "quotes", items: []string{`O'Brien`, `say "hi"`}},
		{name: "backslashes", items: []string{`C:\tools\`, `\'`}},
		{name: "markup", items: []string{"</script><b>bold</b>", "a & b"}},
		{name: "newlines", items: []string{"line one\nline two", "tab\there"}},
		{name: "unicode", items: []string{"Zoë", "日本語", "\u2028"}},
		{name: "marker lookalike", items: []string{"{{name}}", "{{skills}}"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			token, err := EncodeList(tt.items)
			if err != nil {
				t.Fatalf("EncodeList: %v", err)
			}
			got, err := DecodeList(token)
			if err != nil {
				t.Fatalf("DecodeList: %v", err)
			}
			if diff := cmp.Diff(tt.items, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeListRejectsInvalidUTF8(t *testing.T) {
	_, err := EncodeList([]string{"ok", "bad\xff"})
	if !errors.Is(err, portfolio.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestDecodeListRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{`["a"`, `["a'"]`, `["a\n"]`, `["a"]\`, `{"a":1}`} {
		if _, err := DecodeList(token); !errors.Is(err, portfolio.ErrRender) {
			t.Fatalf("token %q: expected ErrRender, got %v", token, err)
		}
	}
}

func TestRenderSubstitutesScalarsVerbatim(t *testing.T) {
	art := portfolio.TemplateArtifact{Path: "index.html", Content: "<h1>{{name}}</h1><p>{{summary}}</p><p>{{contact}}</p>{{unknown}}"}
	data := portfolio.ResumeData{Name: "<Ada & co>", Summary: "{{contact}}", Contact: "ada@example.com"}

	got, err := Render(art, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "<h1><Ada & co></h1><p>{{contact}}</p><p>ada@example.com</p>{{unknown}}"
	if got.Content != want {
		t.Fatalf("unexpected content:\n got %s\nwant %s", got.Content, want)
	}
	if got.Path != art.Path {
		t.Fatalf("path changed: %s", got.Path)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	reg, err := templates.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	arts, err := reg.Artifacts("glassmorphism", "html")
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}
	data := portfolio.ResumeData{Name: "Grace", Skills: []string{"COBOL"}, Projects: []string{"A-0"}}

	first, err := RenderAll(arts, data)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	second, err := RenderAll(arts, data)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("render not idempotent:\n%s", diff)
	}
	if strings.Contains(first[0].Content, "{{name}}") {
		t.Fatal("name marker left in output")
	}
}

func TestRenderTerminalReactScenario(t *testing.T) {
	reg, err := templates.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	arts, err := reg.Artifacts("terminal", "react")
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}
	data := portfolio.ResumeData{Name: "Ada", Skills: []string{"Go", "Rust"}}

	out, err := RenderAll(arts, data)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	app := out[0]
	if app.Path != "src/App.jsx" {
		t.Fatalf("expected component first, got %s", app.Path)
	}
	if !strings.Contains(app.Content, "user@Ada:~$ whoami") {
		t.Fatalf("missing prompt header:\n%s", app.Content)
	}
	m := skillsCall.FindStringSubmatch(app.Content)
	if m == nil {
		t.Fatalf("skills list call not found:\n%s", app.Content)
	}
	skills, err := DecodeList(m[1])
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if joined := strings.Join(skills, ", "); joined != "Go, Rust" {
		t.Fatalf("expected %q, got %q", "Go, Rust", joined)
	}
}

func TestRenderInvalidScalarFails(t *testing.T) {
	art := portfolio.TemplateArtifact{Path: "index.html", Content: "{{name}}"}
	_, err := Render(art, portfolio.ResumeData{Name: "\xc3\x28"})
	if !errors.Is(err, portfolio.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}
