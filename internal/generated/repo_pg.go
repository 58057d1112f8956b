package generated

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

const portfolioColumns = `id, owner_id, template_id, frontend_type, resume_name, archive_name, storage_key, size_bytes, file_count, created_at`

func (r *PGRepo) Create(ctx context.Context, p Portfolio) error {
	const query = `
INSERT INTO generated_portfolios (` + portfolioColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		string(p.TemplateID),
		string(p.FrontendType),
		p.ResumeName,
		p.ArchiveName,
		p.StorageKey,
		p.SizeBytes,
		p.FileCount,
		p.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, ownerID, id string) (Portfolio, error) {
	const query = `
SELECT ` + portfolioColumns + `
FROM generated_portfolios
WHERE id = $1
LIMIT 1`
	p, err := scanPortfolio(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Portfolio{}, ErrNotFound
		}
		return Portfolio{}, err
	}
	if p.OwnerID != ownerID {
		return Portfolio{}, ErrForbidden
	}
	return p, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Portfolio, error) {
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
SELECT ` + portfolioColumns + `
FROM generated_portfolios
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (Portfolio, error) {
	var (
		p                    Portfolio
		templateID, frontend string
	)
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&templateID,
		&frontend,
		&p.ResumeName,
		&p.ArchiveName,
		&p.StorageKey,
		&p.SizeBytes,
		&p.FileCount,
		&p.CreatedAt,
	)
	p.TemplateID = portfolio.TemplateID(templateID)
	p.FrontendType = portfolio.FrontendType(frontend)
	return p, err
}

var _ Repo = (*PGRepo)(nil)
