// Package render substitutes resume fields into template artifacts.
//
// Scalar fields are inserted verbatim. Sequence fields become a list token:
// the JSON array text, escaped for the body of a single-quoted JavaScript
// string literal, so artifacts decode it with JSON.parse('{{skills}}').
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"portfolio-backend/internal/portfolio"
)

// Render fills every known {{field}} marker in a single pass.
// Markers produced by substituted values are never expanded again.
func Render(artifact portfolio.TemplateArtifact, data portfolio.ResumeData) (portfolio.RenderedArtifact, error) {
	replacer, err := newReplacer(data)
	if err != nil {
		return portfolio.RenderedArtifact{}, fmt.Errorf("render %s: %w", artifact.Path, err)
	}
	return portfolio.RenderedArtifact{Path: artifact.Path, Content: replacer.Replace(artifact.Content)}, nil
}

// RenderAll renders a set of artifacts, stopping at the first failure.
func RenderAll(artifacts []portfolio.TemplateArtifact, data portfolio.ResumeData) ([]portfolio.RenderedArtifact, error) {
	replacer, err := newReplacer(data)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := make([]portfolio.RenderedArtifact, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, portfolio.RenderedArtifact{Path: a.Path, Content: replacer.Replace(a.Content)})
	}
	return out, nil
}

func newReplacer(data portfolio.ResumeData) (*strings.Replacer, error) {
	data = data.Normalized()
	pairs := make([]string, 0, 14)
	for _, s := range []struct {
		field, value string
	}{
		{"name", data.Name},
		{"summary", data.Summary},
		{"contact", data.Contact},
	} {
		if !utf8.ValidString(s.value) {
			return nil, fmt.Errorf("%w: field %s is not valid UTF-8", portfolio.ErrRender, s.field)
		}
		pairs = append(pairs, "{{"+s.field+"}}", s.value)
	}
	for _, l := range []struct {
		field string
		items []string
	}{
		{"skills", data.Skills},
		{"education", data.Education},
		{"experience", data.Experience},
		{"projects", data.Projects},
	} {
		token, err := EncodeList(l.items)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", l.field, err)
		}
		pairs = append(pairs, "{{"+l.field+"}}", token)
	}
	return strings.NewReplacer(pairs...), nil
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// EncodeList builds the list token for items and verifies that DecodeList
// recovers them exactly.
func EncodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: %v", portfolio.ErrRender, err)
	}
	token := literalEscaper.Replace(string(raw))

	back, err := DecodeList(token)
	if err != nil {
		return "", err
	}
	if !equal(items, back) {
		return "", fmt.Errorf("%w: list does not survive encoding", portfolio.ErrRender)
	}
	return token, nil
}

// DecodeList parses a list token the way the generated page does.
func DecodeList(token string) ([]string, error) {
	var b strings.Builder
	b.Grow(len(token))
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch c {
		case '\'':
			return nil, fmt.Errorf("%w: unescaped quote at offset %d", portfolio.ErrRender, i)
		case '\\':
			if i+1 >= len(token) {
				return nil, fmt.Errorf("%w: dangling escape", portfolio.ErrRender)
			}
			i++
			switch token[i] {
			case '\\', '\'':
				b.WriteByte(token[i])
			default:
				return nil, fmt.Errorf("%w: unexpected escape \\%c", portfolio.ErrRender, token[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	var items []string
	if err := json.Unmarshal([]byte(b.String()), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", portfolio.ErrRender, err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
