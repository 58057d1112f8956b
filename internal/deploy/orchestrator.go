package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/render"
	"portfolio-backend/internal/shared/util"
)

// Repository identifies a hosted source repository.
type Repository struct {
	ID       int64
	Name     string
	FullName string
	HTMLURL  string
	CloneURL string
}

// Site is the hosting result for a repository.
type Site struct {
	Domain        string
	DeploymentURL string
}

// SourceHost creates a repository and pushes the initial commit.
type SourceHost interface {
	CreateRepository(ctx context.Context, token, name string) (Repository, error)
	PushInitialCommit(ctx context.Context, token string, repo Repository, files []portfolio.RenderedArtifact) error
}

// Hoster links a repository to a hosting project and deploys it.
type Hoster interface {
	Deploy(ctx context.Context, token string, repo Repository, frontend portfolio.FrontendType) (Site, error)
}

// Catalog resolves template artifacts.
type Catalog interface {
	Artifacts(templateID portfolio.TemplateID, frontend portfolio.FrontendType) ([]portfolio.TemplateArtifact, error)
}

// Hooks observe progress between the two provider phases.
type Hooks struct {
	RepoCreated func(name, url string)
}

// Orchestrator runs render, repository creation and hosting in order. It
// never retries and never deletes a repository it created.
type Orchestrator struct {
	Catalog Catalog
	Source  SourceHost
	Hosting Hoster
	Now     func() time.Time
}

// Deploy runs the full pipeline. The returned error equals outcome.Err.
func (o *Orchestrator) Deploy(ctx context.Context, req portfolio.DeploymentRequest) (portfolio.DeploymentOutcome, error) {
	files, err := o.Prepare(req)
	if err != nil {
		return portfolio.DeploymentOutcome{Err: err}, err
	}
	out := o.Publish(ctx, req, files, Hooks{})
	return out, out.Err
}

// Prepare validates req and renders its artifacts. No network call happens
// before Prepare succeeds.
func (o *Orchestrator) Prepare(req portfolio.DeploymentRequest) ([]portfolio.RenderedArtifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	artifacts, err := o.Catalog.Artifacts(req.TemplateID, req.FrontendType)
	if err != nil {
		return nil, err
	}
	return render.RenderAll(artifacts, req.ResumeData.Normalized())
}

// Publish creates the repository, pushes files and deploys. A failure after
// the repository exists keeps RepoCreated and RepoURL on the outcome.
func (o *Orchestrator) Publish(ctx context.Context, req portfolio.DeploymentRequest, files []portfolio.RenderedArtifact, hooks Hooks) portfolio.DeploymentOutcome {
	var out portfolio.DeploymentOutcome
	name := RepoName(req.ResumeData.Name, o.now())

	repo, err := o.Source.CreateRepository(ctx, req.GitHubToken, name)
	if err != nil {
		out.Err = &portfolio.ProviderError{Provider: portfolio.ProviderGitHub, Step: "create repository", Err: err}
		return out
	}
	out.RepoCreated = true
	out.RepoURL = repo.HTMLURL
	if repo.Name == "" {
		repo.Name = name
	}

	if err := o.Source.PushInitialCommit(ctx, req.GitHubToken, repo, files); err != nil {
		out.Err = &portfolio.ProviderError{Provider: portfolio.ProviderGitHub, Step: "push", RepoURL: repo.HTMLURL, Err: err}
		return out
	}
	if hooks.RepoCreated != nil {
		hooks.RepoCreated(repo.Name, repo.HTMLURL)
	}

	site, err := o.Hosting.Deploy(ctx, req.VercelToken, repo, req.FrontendType)
	if err != nil {
		out.Err = &portfolio.ProviderError{Provider: portfolio.ProviderVercel, Step: "deploy", RepoURL: repo.HTMLURL, Err: err}
		return out
	}
	out.Deployed = true
	out.VercelDomain = site.Domain
	out.DeploymentURL = site.DeploymentURL
	return out
}

// RepoName is portfolio-{slug}-{unix seconds}; an empty slug becomes "user".
func RepoName(resumeName string, at time.Time) string {
	slug := util.Slug(resumeName)
	if slug == "" {
		slug = "user"
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	return fmt.Sprintf("portfolio-%s-%d", slug, at.Unix())
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
