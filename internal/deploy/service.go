package deploy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/telemetry"
)

// Service runs deployments and keeps their history.
type Service struct {
	Orchestrator *Orchestrator
	Repo         Repo
	Now          func() time.Time
}

// Deploy validates and renders req, records a pending attempt and publishes it.
// Requests rejected before any provider call are not recorded.
func (s *Service) Deploy(ctx context.Context, ownerID string, req portfolio.DeploymentRequest) (Deployment, portfolio.DeploymentOutcome, error) {
	files, err := s.Orchestrator.Prepare(req)
	if err != nil {
		return Deployment{}, portfolio.DeploymentOutcome{Err: err}, err
	}

	now := s.now()
	d := Deployment{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		TemplateID:   req.TemplateID,
		FrontendType: req.FrontendType,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, d); err != nil {
		return Deployment{}, portfolio.DeploymentOutcome{Err: err}, err
	}
	telemetry.Info("deploy.started", map[string]any{
		"deployment_id": d.ID,
		"template":      string(d.TemplateID),
		"frontend_type": string(d.FrontendType),
	})

	out := s.Orchestrator.Publish(ctx, req, files, Hooks{
		RepoCreated: func(name, url string) {
			d.RepoName = name
			d.RepoURL = url
			d.Status = StatusRepoCreated
			s.save(ctx, &d)
		},
	})

	d.RepoURL = out.RepoURL
	d.VercelDomain = out.VercelDomain
	d.DeploymentURL = out.DeploymentURL
	switch {
	case out.Deployed:
		d.Status = StatusDeployed
	case out.RepoCreated:
		d.Status = StatusDeployFailed
	default:
		d.Status = StatusRepoFailed
	}
	if out.Err != nil {
		_, d.ErrorCode = portfolio.StatusFor(out.Err)
		d.ErrorMessage = out.Err.Error()
	}
	s.save(ctx, &d)

	fields := map[string]any{
		"deployment_id": d.ID,
		"status":        string(d.Status),
		"repo_url":      d.RepoURL,
	}
	if out.Err != nil {
		fields["error"] = out.Err.Error()
		telemetry.Error("deploy.failed", fields)
	} else {
		fields["vercel_domain"] = d.VercelDomain
		telemetry.Info("deploy.completed", fields)
	}
	return d, out, out.Err
}

// Get returns a deployment owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Deployment, error) {
	return s.Repo.GetByID(ctx, ownerID, id)
}

// List returns the caller's deployments newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Deployment, error) {
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// save records progress; a history write failure never fails the deploy.
func (s *Service) save(ctx context.Context, d *Deployment) {
	d.UpdatedAt = s.now()
	// The request may be cancelled after the providers answered.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if err := s.Repo.Update(ctx, *d); err != nil && !errors.Is(err, context.Canceled) {
		telemetry.Warn("deploy.record_failed", map[string]any{
			"deployment_id": d.ID,
			"error":         err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
