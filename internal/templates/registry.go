// Package templates is the registry of portfolio site sources keyed by
// template id and frontend type.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"portfolio-backend/internal/portfolio"
)

//go:embed manifest.yaml assets
var embedded embed.FS

// Fields lists the placeholder names every component artifact must expose.
var Fields = []string{"name", "summary", "skills", "education", "experience", "projects", "contact"}

// Template describes one catalog entry.
type Template struct {
	ID          portfolio.TemplateID     `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Version     int                      `json:"version"`
	Frontends   []portfolio.FrontendType `json:"frontends"`
}

type manifestFile struct {
	Version   int                 `yaml:"version"`
	Shared    map[string][]string `yaml:"shared"`
	Templates []struct {
		ID          string              `yaml:"id"`
		Title       string              `yaml:"title"`
		Description string              `yaml:"description"`
		Version     int                 `yaml:"version"`
		Frontends   map[string][]string `yaml:"frontends"`
	} `yaml:"templates"`
}

type entry struct {
	meta      Template
	artifacts map[portfolio.FrontendType][]portfolio.TemplateArtifact
}

// Registry maps (template, frontend) pairs to their source artifacts.
type Registry struct {
	entries map[portfolio.TemplateID]*entry
	order   []portfolio.TemplateID
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry built from the embedded catalog.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load(embedded)
	})
	return defaultReg, defaultErr
}

// Load reads manifest.yaml and the assets tree from fsys.
func Load(fsys fs.FS) (*Registry, error) {
	raw, err := fs.ReadFile(fsys, "manifest.yaml")
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var mf manifestFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	reg := &Registry{entries: make(map[portfolio.TemplateID]*entry)}
	for _, tmpl := range mf.Templates {
		id := portfolio.TemplateID(strings.TrimSpace(tmpl.ID))
		if id == "" {
			return nil, fmt.Errorf("template id is required")
		}
		if _, dup := reg.entries[id]; dup {
			return nil, fmt.Errorf("template %q declared twice", id)
		}
		e := &entry{
			meta: Template{
				ID:          id,
				Title:       tmpl.Title,
				Description: tmpl.Description,
				Version:     tmpl.Version,
			},
			artifacts: make(map[portfolio.FrontendType][]portfolio.TemplateArtifact),
		}
		for _, frontend := range []portfolio.FrontendType{portfolio.FrontendHTML, portfolio.FrontendReact} {
			paths, ok := tmpl.Frontends[string(frontend)]
			if !ok {
				continue
			}
			if len(paths) == 0 {
				return nil, fmt.Errorf("template %q frontend %q has no artifacts", id, frontend)
			}
			arts, err := readArtifacts(fsys, path.Join("assets", string(id), string(frontend)), paths)
			if err != nil {
				return nil, fmt.Errorf("template %q frontend %q: %w", id, frontend, err)
			}
			if missing := missingFields(arts[0].Content); len(missing) > 0 {
				return nil, fmt.Errorf("template %q frontend %q: %s missing placeholders %v", id, frontend, arts[0].Path, missing)
			}
			shared, err := readArtifacts(fsys, path.Join("assets", "shared", string(frontend)), mf.Shared[string(frontend)])
			if err != nil {
				return nil, fmt.Errorf("shared %q: %w", frontend, err)
			}
			e.artifacts[frontend] = append(arts, shared...)
			e.meta.Frontends = append(e.meta.Frontends, frontend)
		}
		reg.entries[id] = e
		reg.order = append(reg.order, id)
	}
	return reg, nil
}

func readArtifacts(fsys fs.FS, dir string, paths []string) ([]portfolio.TemplateArtifact, error) {
	out := make([]portfolio.TemplateArtifact, 0, len(paths))
	for _, p := range paths {
		clean := path.Clean(strings.TrimSpace(p))
		if clean == "." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
			return nil, fmt.Errorf("invalid artifact path %q", p)
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, clean))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", clean, err)
		}
		out = append(out, portfolio.TemplateArtifact{Path: clean, Content: string(data)})
	}
	return out, nil
}

func missingFields(content string) []string {
	var missing []string
	for _, f := range Fields {
		if !strings.Contains(content, "{{"+f+"}}") {
			missing = append(missing, f)
		}
	}
	return missing
}

// Artifacts returns a copy of the source artifacts for the pair.
func (r *Registry) Artifacts(templateID portfolio.TemplateID, frontend portfolio.FrontendType) ([]portfolio.TemplateArtifact, error) {
	e, ok := r.entries[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", portfolio.ErrUnknownTemplate, templateID)
	}
	arts, ok := e.artifacts[frontend]
	if !ok {
		return nil, fmt.Errorf("%w: %q", portfolio.ErrUnknownFrontendType, frontend)
	}
	out := make([]portfolio.TemplateArtifact, len(arts))
	copy(out, arts)
	return out, nil
}

// List returns catalog metadata in manifest order.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		meta := r.entries[id].meta
		meta.Frontends = append([]portfolio.FrontendType(nil), meta.Frontends...)
		out = append(out, meta)
	}
	return out
}
