package deploy

import (
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
)

// DeployRequest is the body of POST /deploy.
type DeployRequest struct {
	ParsedData   *portfolio.ResumeData `json:"parsed_data"`
	Template     string                `json:"template"`
	FrontendType string                `json:"frontend_type"`
	GitHubToken  string                `json:"github_token"`
	VercelToken  string                `json:"vercel_token"`
}

// ToDomain converts the body, using fallbackVercel when no Vercel token was sent.
func (r DeployRequest) ToDomain(fallbackVercel string) portfolio.DeploymentRequest {
	sel := portfolio.ParseSelection(r.Template, r.FrontendType)
	vercelToken := strings.TrimSpace(r.VercelToken)
	if vercelToken == "" {
		vercelToken = strings.TrimSpace(fallbackVercel)
	}
	return portfolio.DeploymentRequest{
		GenerationRequest: portfolio.GenerationRequest{
			ResumeData:   r.ParsedData,
			TemplateID:   sel.TemplateID,
			FrontendType: sel.FrontendType,
		},
		GitHubToken: strings.TrimSpace(r.GitHubToken),
		VercelToken: vercelToken,
	}
}

// DeploymentResponse is the history view of a deployment.
type DeploymentResponse struct {
	ID            string    `json:"id"`
	Template      string    `json:"template"`
	FrontendType  string    `json:"frontend_type"`
	RepoName      string    `json:"repo_name,omitempty"`
	RepoURL       string    `json:"repo_url,omitempty"`
	VercelDomain  string    `json:"vercel_domain,omitempty"`
	DeploymentURL string    `json:"deployment_url,omitempty"`
	Status        string    `json:"status"`
	ErrorCode     string    `json:"error_code,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toDeploymentResponse(d Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:            d.ID,
		Template:      string(d.TemplateID),
		FrontendType:  string(d.FrontendType),
		RepoName:      d.RepoName,
		RepoURL:       d.RepoURL,
		VercelDomain:  d.VercelDomain,
		DeploymentURL: d.DeploymentURL,
		Status:        string(d.Status),
		ErrorCode:     d.ErrorCode,
		ErrorMessage:  d.ErrorMessage,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
