package portfolio

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeResumeDataNormalizesSequences(t *testing.T) {
	data, err := DecodeResumeData(`{"name":"Ada","skills":null}`)
	if err != nil {
		t.Fatalf("DecodeResumeData: %v", err)
	}
	if data.Skills == nil || data.Projects == nil {
		t.Fatalf("expected empty non-nil sequences, got %+v", data)
	}
}

func TestDecodeResumeDataRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: "  "},
		{name: "invalid json", text: `{"name":`},
		{name: "sequence not array", text: `{"skills":"Go"}`},
		{name: "unknown field", text: `{"nmae":"Ada"}`},
		{name: "trailing", text: `{"name":"Ada"} {}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResumeData(tt.text)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestEncodeResumeDataRoundTrip(t *testing.T) {
	in := ResumeData{Name: "Ada <Lovelace>", Skills: []string{"Go"}}
	text, err := EncodeResumeData(in)
	if err != nil {
		t.Fatalf("EncodeResumeData: %v", err)
	}
	if !strings.Contains(text, "Ada <Lovelace>") {
		t.Fatalf("expected unescaped markup in editor text, got %s", text)
	}
	out, err := DecodeResumeData(text)
	if err != nil {
		t.Fatalf("DecodeResumeData: %v", err)
	}
	if out.Name != in.Name || len(out.Skills) != 1 || len(out.Education) != 0 {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}

func TestDeploymentRequestValidate(t *testing.T) {
	data := &ResumeData{Name: "Ada"}
	tests := []struct {
		name    string
		req     DeploymentRequest
		wantErr bool
	}{
		{name: "missing data", req: DeploymentRequest{GitHubToken: "g", VercelToken: "v"}, wantErr: true},
		{name: "missing github", req: DeploymentRequest{GenerationRequest: GenerationRequest{ResumeData: data}, VercelToken: "v"}, wantErr: true},
		{name: "blank vercel", req: DeploymentRequest{GenerationRequest: GenerationRequest{ResumeData: data}, GitHubToken: "g", VercelToken: " "}, wantErr: true},
		{name: "ok", req: DeploymentRequest{GenerationRequest: GenerationRequest{ResumeData: data}, GitHubToken: "g", VercelToken: "v"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestProviderErrorIncludesRepoURL(t *testing.T) {
	cause := errors.New("boom")
	err := &ProviderError{Provider: ProviderVercel, Step: "create project", RepoURL: "https://github.com/ada/portfolio", Err: cause}
	if !strings.Contains(err.Error(), "https://github.com/ada/portfolio") {
		t.Fatalf("expected repo url in message, got %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected error to unwrap to cause")
	}
}
