package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/pkg/client"
)

type scripted struct {
	t       *testing.T
	answers []string
}

func (s *scripted) next(message string) (string, error) {
	if len(s.answers) == 0 {
		s.t.Fatalf("unexpected prompt %q", message)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scripted) Input(message, _ string, _ func(string) error) (string, error) {
	return s.next(message)
}
func (s *scripted) Password(message string) (string, error) { return s.next(message) }
func (s *scripted) Select(message string, _ []string, _ string) (string, error) {
	return s.next(message)
}
func (s *scripted) Edit(message, _ string) (string, error) { return s.next(message) }

type fakeAPI struct {
	parseErr  error
	deployErr error
	generated []portfolio.GenerationRequest
	deployed  []portfolio.DeploymentRequest
}

func (f *fakeAPI) Parse(_ context.Context, _ string, _ []byte) (portfolio.ResumeData, error) {
	if f.parseErr != nil {
		err := f.parseErr
		f.parseErr = nil
		return portfolio.ResumeData{}, err
	}
	return portfolio.ResumeData{Name: "Ada", Skills: []string{"Go"}}, nil
}

func (f *fakeAPI) Generate(_ context.Context, req portfolio.GenerationRequest) (portfolio.Archive, error) {
	f.generated = append(f.generated, req)
	return portfolio.Archive{Name: "portfolio_terminal_react_1.zip", Data: []byte("PK")}, nil
}

func (f *fakeAPI) Deploy(_ context.Context, req portfolio.DeploymentRequest) (portfolio.DeploymentResult, error) {
	f.deployed = append(f.deployed, req)
	if f.deployErr != nil {
		return portfolio.DeploymentResult{}, f.deployErr
	}
	return portfolio.DeploymentResult{RepoURL: "https://github.com/ada/p", VercelDomain: "p.vercel.app"}, nil
}

func (f *fakeAPI) Templates(context.Context) ([]client.Template, error) {
	return []client.Template{
		{ID: "classic", Frontends: []string{"html", "react"}},
		{ID: "terminal", Frontends: []string{"html", "react"}},
	}, nil
}

func writeResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRunGenerateAndDeploy(t *testing.T) {
	api := &fakeAPI{}
	path := writeResume(t)
	ui := &scripted{t: t, answers: []string{
		path,
		actTemplate, "terminal", "react",
		actEdit, `{"name":"Grace","skills":["COBOL"]}`,
		actGenerate,
		actDeploy, "ghp", "vc",
		actQuit,
	}}
	var out bytes.Buffer
	a := newApp(api, ui, &out)
	a.outDir = t.TempDir()

	if err := a.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(api.generated) != 1 || api.generated[0].TemplateID != "terminal" || api.generated[0].ResumeData.Name != "Grace" {
		t.Fatalf("unexpected generate calls %+v", api.generated)
	}
	data, err := os.ReadFile(filepath.Join(a.outDir, "portfolio_terminal_react_1.zip"))
	if err != nil || string(data) != "PK" {
		t.Fatalf("archive not saved: %v", err)
	}
	if len(api.deployed) != 1 || api.deployed[0].GitHubToken != "ghp" || api.deployed[0].FrontendType != "react" {
		t.Fatalf("unexpected deploy calls %+v", api.deployed)
	}
	if !strings.Contains(out.String(), "Site: https://p.vercel.app") {
		t.Fatalf("missing site in output:\n%s", out.String())
	}
}

func TestRunRetriesFailedUpload(t *testing.T) {
	api := &fakeAPI{parseErr: &client.APIError{Status: 400, Detail: "Only PDF files are allowed"}}
	path := writeResume(t)
	ui := &scripted{t: t, answers: []string{path, path, actQuit}}
	var out bytes.Buffer

	if err := newApp(api, ui, &out).run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Upload failed: Only PDF files are allowed") {
		t.Fatalf("expected upload failure message:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Parsed resume.pdf: Ada") {
		t.Fatalf("expected retry to parse:\n%s", out.String())
	}
}

func TestDeployPartialFailureShowsRepository(t *testing.T) {
	api := &fakeAPI{deployErr: &portfolio.ProviderError{
		Provider: portfolio.ProviderVercel,
		Step:     "deploy",
		RepoURL:  "https://github.com/ada/p",
		Err:      errors.New("quota exceeded"),
	}}
	ui := &scripted{t: t, answers: []string{writeResume(t), actDeploy, actQuit}}
	var out bytes.Buffer
	a := newApp(api, ui, &out)
	a.githubToken, a.vercelToken = "ghp", "vc"

	if err := a.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "The repository was created: https://github.com/ada/p") {
		t.Fatalf("expected partial repo in output:\n%s", out.String())
	}
}

func TestResetReturnsToFileSelection(t *testing.T) {
	api := &fakeAPI{}
	path := writeResume(t)
	ui := &scripted{t: t, answers: []string{path, actReset, path, actQuit}}

	if err := newApp(api, ui, &bytes.Buffer{}).run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ui.answers) != 0 {
		t.Fatalf("unused answers %v", ui.answers)
	}
}

func TestInvalidEditIsReported(t *testing.T) {
	ui := &scripted{t: t, answers: []string{writeResume(t), actEdit, `{"name":`, actQuit}}
	var out bytes.Buffer
	if err := newApp(&fakeAPI{}, ui, &out).run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "invalid resume data") {
		t.Fatalf("expected edit rejection:\n%s", out.String())
	}
}
