// Package packager bundles rendered artifacts into a downloadable zip.
package packager

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
)

// Package writes artifacts into a deflate-compressed archive, one entry per path.
func Package(artifacts []portfolio.RenderedArtifact, modified time.Time) ([]byte, error) {
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: no artifacts", portfolio.ErrPackaging)
	}

	seen := make(map[string]struct{}, len(artifacts))
	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		name, err := entryName(a.Path)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", portfolio.ErrPackaging, name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	defer writer.Close()

	for i, a := range artifacts {
		header := &zip.FileHeader{Name: names[i], Method: zip.Deflate}
		if !modified.IsZero() {
			header.Modified = modified
		}
		dst, err := writer.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", portfolio.ErrPackaging, err)
		}
		if _, err := dst.Write([]byte(a.Content)); err != nil {
			return nil, fmt.Errorf("%w: %v", portfolio.ErrPackaging, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", portfolio.ErrPackaging, err)
	}
	return output.Bytes(), nil
}

func entryName(p string) (string, error) {
	name := strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if name == "" {
		return "", fmt.Errorf("%w: empty path", portfolio.ErrPackaging)
	}
	if path.IsAbs(name) {
		return "", fmt.Errorf("%w: absolute path %q", portfolio.ErrPackaging, p)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: path %q escapes archive root", portfolio.ErrPackaging, p)
	}
	return clean, nil
}

// ArchiveName returns the download filename for a generated site.
func ArchiveName(templateID portfolio.TemplateID, frontend portfolio.FrontendType, at time.Time) string {
	return fmt.Sprintf("portfolio_%s_%s_%d.zip", templateID, frontend, at.UnixMilli())
}
