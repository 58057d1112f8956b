// Package extract pulls plain text out of uploaded resumes.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"portfolio-backend/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

// ErrUnsupported is returned for anything other than a PDF.
var ErrUnsupported = errors.New("unsupported document type")

// TextFromObject reads a stored PDF and persists a derived .extracted.txt copy next to it.
func TextFromObject(ctx context.Context, store object.Store, key string, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: read: %w", key, err)
	}

	text, err := Text(ctx, raw, mimeType)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s: %w", key, err)
	}

	if _, err := store.Put(ctx, key+".extracted.txt", "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s: save: %w", key, err)
	}
	return text, nil
}

// Text extracts text from an in-memory PDF payload.
func Text(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != mimePDF && !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, clean)
	}
	return extractPDF(data)
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
