// Package uploads accepts resume PDFs and turns them into editable ResumeData.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"portfolio-backend/internal/extract"
	"portfolio-backend/internal/parser"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/shared/util"
)

var (
	// ErrNotPDF rejects anything that is not a PDF by name or by content.
	ErrNotPDF = errors.New("Only PDF files are allowed")

	// ErrUnreadable indicates a PDF whose text could not be extracted.
	ErrUnreadable = errors.New("Error processing PDF")
)

// ExtractFunc reads the text of a stored document.
type ExtractFunc func(ctx context.Context, store object.Store, key, mimeType string) (string, error)

// Service stores uploads and parses them.
type Service struct {
	Store   object.Store
	Extract ExtractFunc
}

// Result is a parsed upload.
type Result struct {
	FileName string
	Key      string
	Parsed   portfolio.ResumeData
}

// Upload checks the name, stores the bytes, confirms the sniffed type and
// parses the extracted text.
func (s *Service) Upload(ctx context.Context, ownerID, fileName string, r io.Reader) (Result, error) {
	name, err := util.SanitizeFileName(filepath.Base(fileName))
	if err != nil {
		return Result{}, portfolio.Validationf("invalid file name")
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return Result{}, ErrNotPDF
	}

	obj, err := s.Store.Save(ctx, ownerID, name, r)
	if err != nil {
		return Result{}, fmt.Errorf("store upload: %w", err)
	}
	if !strings.HasPrefix(obj.MimeType, "application/pdf") {
		return Result{}, ErrNotPDF
	}

	text, err := s.extract()(ctx, s.Store, obj.Key, obj.MimeType)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			return Result{}, ErrNotPDF
		}
		telemetry.Warn("upload.extract_failed", map[string]any{"key": obj.Key, "error": err.Error()})
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	parsed := parser.Parse(text)
	telemetry.Info("upload.parsed", map[string]any{
		"key":        obj.Key,
		"size_bytes": obj.Size,
		"skills":     len(parsed.Skills),
	})
	return Result{FileName: name, Key: obj.Key, Parsed: parsed}, nil
}

func (s *Service) extract() ExtractFunc {
	if s.Extract != nil {
		return s.Extract
	}
	return extract.TextFromObject
}
