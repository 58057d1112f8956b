// Package portfolio holds the domain types shared by the generation and
// deployment pipeline.
package portfolio

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ResumeData is the structured resume produced by parsing and edited by the user.
type ResumeData struct {
	Name       string   `json:"name"`
	Summary    string   `json:"summary"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
	Projects   []string `json:"projects"`
	Contact    string   `json:"contact"`
}

// Normalized returns a copy whose sequence fields are non-nil.
func (d ResumeData) Normalized() ResumeData {
	d.Skills = nonNil(d.Skills)
	d.Education = nonNil(d.Education)
	d.Experience = nonNil(d.Experience)
	d.Projects = nonNil(d.Projects)
	return d
}

// DecodeResumeData is the editor adapter: it turns edited JSON text into ResumeData.
// Unknown fields are rejected so typos do not silently drop content.
func DecodeResumeData(text string) (ResumeData, error) {
	if strings.TrimSpace(text) == "" {
		return ResumeData{}, Validationf("resume data is empty")
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	var data ResumeData
	if err := dec.Decode(&data); err != nil {
		return ResumeData{}, Validationf("invalid resume data: %v", err)
	}
	if dec.More() {
		return ResumeData{}, Validationf("invalid resume data: trailing content")
	}
	return data.Normalized(), nil
}

// EncodeResumeData renders ResumeData as indented JSON for editing.
func EncodeResumeData(data ResumeData) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data.Normalized()); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// TemplateID identifies a visual template variant.
type TemplateID string

const (
	TemplateClassic       TemplateID = "classic"
	TemplateGlassmorphism TemplateID = "glassmorphism"
	TemplateTerminal      TemplateID = "terminal"
)

// FrontendType identifies the generated site technology.
type FrontendType string

const (
	FrontendHTML  FrontendType = "html"
	FrontendReact FrontendType = "react"
)

// Selection is the user's template/frontend choice.
type Selection struct {
	TemplateID   TemplateID
	FrontendType FrontendType
}

// DefaultSelection matches the initial choice offered to a new session.
func DefaultSelection() Selection {
	return Selection{TemplateID: TemplateClassic, FrontendType: FrontendHTML}
}

// TemplateArtifact is one registry source file containing {{field}} markers.
type TemplateArtifact struct {
	Path    string
	Content string
}

// RenderedArtifact is a TemplateArtifact after substitution.
type RenderedArtifact struct {
	Path    string
	Content string
}

// GenerationRequest asks for rendered artifacts of one template/frontend pair.
type GenerationRequest struct {
	ResumeData   *ResumeData
	TemplateID   TemplateID
	FrontendType FrontendType
}

// Validate checks the request before rendering.
func (r GenerationRequest) Validate() error {
	if r.ResumeData == nil {
		return Validationf("resume data is required")
	}
	return nil
}

// DeploymentRequest extends GenerationRequest with provider credentials.
// Tokens live only for the duration of a single deploy call.
type DeploymentRequest struct {
	GenerationRequest
	GitHubToken string
	VercelToken string
}

// Validate checks resume data and both credentials.
func (r DeploymentRequest) Validate() error {
	if err := r.GenerationRequest.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.GitHubToken) == "" || strings.TrimSpace(r.VercelToken) == "" {
		return Validationf("GitHub and Vercel tokens are required")
	}
	return nil
}

// DeploymentResult is returned once both providers succeed.
type DeploymentResult struct {
	RepoURL      string `json:"repo_url"`
	VercelDomain string `json:"vercel_domain"`
}

// DeploymentOutcome captures both phases of a deployment so a partial
// success (repository created, hosting failed) is not lost.
type DeploymentOutcome struct {
	RepoCreated   bool
	Deployed      bool
	RepoURL       string
	VercelDomain  string
	DeploymentURL string
	Err           error
}

// Result returns the public identifiers; only meaningful when Deployed.
func (o DeploymentOutcome) Result() DeploymentResult {
	return DeploymentResult{RepoURL: o.RepoURL, VercelDomain: o.VercelDomain}
}

// Archive is a packaged site ready for download.
type Archive struct {
	Name string
	Data []byte
}
