package generated

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	p := Portfolio{
		ID:           "0b6b5a8e-2a8b-4c8e-9d1e-1f2f3f4f5f6f",
		OwnerID:      "guest:g1",
		TemplateID:   "classic",
		FrontendType: "html",
		ResumeName:   "Ada",
		ArchiveName:  "portfolio_classic_html_1.zip",
		StorageKey:   "portfolios/x/y/portfolio_classic_html_1.zip",
		SizeBytes:    1024,
		FileCount:    2,
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO generated_portfolios").
		WithArgs(p.ID, p.OwnerID, "classic", "html", p.ResumeName, p.ArchiveName, p.StorageKey, p.SizeBytes, p.FileCount, p.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDOwnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	cols := []string{"id", "owner_id", "template_id", "frontend_type", "resume_name", "archive_name", "storage_key", "size_bytes", "file_count", "created_at"}
	mock.ExpectQuery("FROM generated_portfolios").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p1", "guest:g1", "terminal", "react", "Ada", "a.zip", "k", int64(10), 6, time.Now()))
	mock.ExpectQuery("FROM generated_portfolios").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p1", "guest:g1", "terminal", "react", "Ada", "a.zip", "k", int64(10), 6, time.Now()))
	mock.ExpectQuery("FROM generated_portfolios").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(cols))

	p, err := repo.GetByID(context.Background(), "guest:g1", "p1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.TemplateID != "terminal" || p.FileCount != 6 {
		t.Fatalf("unexpected portfolio %+v", p)
	}
	if _, err := repo.GetByID(context.Background(), "guest:g2", "p1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "guest:g1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
