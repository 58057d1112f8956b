package deploy

import (
	"context"
	"database/sql"
	"errors"

	"portfolio-backend/internal/portfolio"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

const deploymentColumns = `id, owner_id, template_id, frontend_type, repo_name, repo_url, vercel_domain, deployment_url, status, error_code, error_message, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, d Deployment) error {
	const query = `
INSERT INTO deployments (` + deploymentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, query,
		d.ID,
		d.OwnerID,
		string(d.TemplateID),
		string(d.FrontendType),
		d.RepoName,
		d.RepoURL,
		d.VercelDomain,
		d.DeploymentURL,
		string(d.Status),
		d.ErrorCode,
		d.ErrorMessage,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Update(ctx context.Context, d Deployment) error {
	const query = `
UPDATE deployments
SET repo_name = $2,
    repo_url = $3,
    vercel_domain = $4,
    deployment_url = $5,
    status = $6,
    error_code = $7,
    error_message = $8,
    updated_at = $9
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		d.ID,
		d.RepoName,
		d.RepoURL,
		d.VercelDomain,
		d.DeploymentURL,
		string(d.Status),
		d.ErrorCode,
		d.ErrorMessage,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Deployment, error) {
	const query = `
SELECT ` + deploymentColumns + `
FROM deployments
WHERE id = $1
LIMIT 1`
	d, err := scanDeployment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Deployment{}, ErrNotFound
		}
		return Deployment{}, err
	}
	if d.OwnerID != ownerID {
		return Deployment{}, ErrForbidden
	}
	return d, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Deployment, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + deploymentColumns + `
FROM deployments
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Deployment{}
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeployment(row rowScanner) (Deployment, error) {
	var (
		d                            Deployment
		templateID, frontend, status string
	)
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&templateID,
		&frontend,
		&d.RepoName,
		&d.RepoURL,
		&d.VercelDomain,
		&d.DeploymentURL,
		&status,
		&d.ErrorCode,
		&d.ErrorMessage,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	d.TemplateID = portfolio.TemplateID(templateID)
	d.FrontendType = portfolio.FrontendType(frontend)
	d.Status = Status(status)
	return d, err
}

var _ Repo = (*PGRepo)(nil)
