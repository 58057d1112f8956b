package deploy

import (
	"context"
	"time"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/providers/github"
	"portfolio-backend/internal/providers/vercel"
)

// GitHub adapts the GitHub REST client and go-git push to SourceHost.
type GitHub struct {
	Client *github.Client
	Now    func() time.Time
}

func (g GitHub) CreateRepository(ctx context.Context, token, name string) (Repository, error) {
	repo, err := g.Client.CreateRepository(ctx, token, name)
	if err != nil {
		return Repository{}, err
	}
	return Repository{
		ID:       repo.ID,
		Name:     repo.Name,
		FullName: repo.FullName,
		HTMLURL:  repo.HTMLURL,
		CloneURL: repo.CloneURL,
	}, nil
}

func (g GitHub) PushInitialCommit(ctx context.Context, token string, repo Repository, files []portfolio.RenderedArtifact) error {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	_, err := github.Push(ctx, repo.CloneURL, token, files, now)
	return err
}

// Vercel adapts the Vercel client to Hoster.
type Vercel struct {
	Client *vercel.Client
}

func (v Vercel) Deploy(ctx context.Context, token string, repo Repository, frontend portfolio.FrontendType) (Site, error) {
	project, err := v.Client.CreateProject(ctx, token, repo.Name, repo.FullName, Framework(frontend))
	if err != nil {
		return Site{}, err
	}
	dep, err := v.Client.CreateDeployment(ctx, token, project, repo.ID, github.Branch)
	if err != nil {
		return Site{}, err
	}
	site := Site{Domain: vercel.Domain(project, dep)}
	if dep.URL != "" {
		site.DeploymentURL = "https://" + dep.URL
	}
	return site, nil
}

// Framework is the Vercel framework preset for a frontend type; static
// HTML sites use none.
func Framework(frontend portfolio.FrontendType) string {
	if frontend == portfolio.FrontendReact {
		return "create-react-app"
	}
	return ""
}

var (
	_ SourceHost = GitHub{}
	_ Hoster     = Vercel{}
)
