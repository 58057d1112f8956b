// Package generated produces downloadable portfolio archives and keeps a
// per-caller history of them.
package generated

import (
	"time"

	"portfolio-backend/internal/portfolio"
)

// Portfolio records one generated archive.
type Portfolio struct {
	ID           string
	OwnerID      string
	TemplateID   portfolio.TemplateID
	FrontendType portfolio.FrontendType
	ResumeName   string
	ArchiveName  string
	StorageKey   string
	SizeBytes    int64
	FileCount    int
	CreatedAt    time.Time
}
