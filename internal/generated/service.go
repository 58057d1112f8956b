package generated

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/packager"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/render"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/shared/util"
)

const archiveContentType = "application/zip"

// Catalog resolves template artifacts.
type Catalog interface {
	Artifacts(templateID portfolio.TemplateID, frontend portfolio.FrontendType) ([]portfolio.TemplateArtifact, error)
}

// Service renders, packages and records portfolio archives.
type Service struct {
	Catalog Catalog
	Repo    Repo
	Store   object.Store
	Now     func() time.Time
}

// Result is a freshly generated archive and its history record.
type Result struct {
	Portfolio Portfolio
	Archive   []byte
}

// Generate builds the archive for req, stores it, and records it for ownerID.
// Nothing is stored when validation, rendering or packaging fails.
func (s *Service) Generate(ctx context.Context, ownerID string, req portfolio.GenerationRequest) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	data := req.ResumeData.Normalized()

	artifacts, err := s.Catalog.Artifacts(req.TemplateID, req.FrontendType)
	if err != nil {
		return Result{}, err
	}
	rendered, err := render.RenderAll(artifacts, data)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	archive, err := packager.Package(rendered, now)
	if err != nil {
		return Result{}, err
	}

	p := Portfolio{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		TemplateID:   req.TemplateID,
		FrontendType: req.FrontendType,
		ResumeName:   data.Name,
		ArchiveName:  packager.ArchiveName(req.TemplateID, req.FrontendType, now),
		SizeBytes:    int64(len(archive)),
		FileCount:    len(rendered),
		CreatedAt:    now,
	}
	p.StorageKey = object.ArchiveKey(util.HashOwnerKey(ownerID), p.ID, p.ArchiveName)

	if _, err := s.Store.Put(ctx, p.StorageKey, archiveContentType, bytes.NewReader(archive)); err != nil {
		return Result{}, fmt.Errorf("store archive: %w", err)
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Result{}, fmt.Errorf("record portfolio: %w", err)
	}

	telemetry.Info("portfolio.generated", map[string]any{
		"portfolio_id":  p.ID,
		"template":      string(p.TemplateID),
		"frontend_type": string(p.FrontendType),
		"files":         p.FileCount,
		"size_bytes":    p.SizeBytes,
	})
	return Result{Portfolio: p, Archive: archive}, nil
}

// Open returns the stored archive for a portfolio owned by ownerID.
func (s *Service) Open(ctx context.Context, ownerID, id string) (Portfolio, io.ReadCloser, error) {
	p, err := s.Repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return Portfolio{}, nil, err
	}
	rc, err := s.Store.Open(ctx, p.StorageKey)
	if err != nil {
		return Portfolio{}, nil, fmt.Errorf("open archive: %w", err)
	}
	return p, rc, nil
}

// List returns the caller's portfolios newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Portfolio, error) {
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
