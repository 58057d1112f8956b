// Package deploy publishes a rendered portfolio to GitHub and hosts it on
// Vercel, recording every attempt.
package deploy

import (
	"time"

	"portfolio-backend/internal/portfolio"
)

// Status is the lifecycle state of a deployment attempt.
type Status string

const (
	StatusPending      Status = "pending"
	StatusRepoCreated  Status = "repo_created"
	StatusDeployed     Status = "deployed"
	StatusRepoFailed   Status = "repo_failed"
	StatusDeployFailed Status = "deploy_failed"
)

// Deployment records one deploy attempt. Credentials are never part of it.
type Deployment struct {
	ID            string
	OwnerID       string
	TemplateID    portfolio.TemplateID
	FrontendType  portfolio.FrontendType
	RepoName      string
	RepoURL       string
	VercelDomain  string
	DeploymentURL string
	Status        Status
	ErrorCode     string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
