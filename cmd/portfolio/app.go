package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/session"
	"portfolio-backend/pkg/client"
)

const (
	actEdit     = "Edit resume data"
	actTemplate = "Choose template"
	actGenerate = "Generate archive"
	actDeploy   = "Deploy to GitHub and Vercel"
	actReset    = "Start over"
	actQuit     = "Quit"
)

var menu = []string{actEdit, actTemplate, actGenerate, actDeploy, actReset, actQuit}

type backend interface {
	session.Backend
	Templates(ctx context.Context) ([]client.Template, error)
}

type app struct {
	api    backend
	sess   *session.Session
	ui     prompter
	out    io.Writer
	outDir string
	// Tokens from the environment skip the password prompts.
	githubToken string
	vercelToken string

	catalog []client.Template
}

func newApp(api backend, ui prompter, out io.Writer) *app {
	return &app{
		api:    api,
		sess:   session.New(api),
		ui:     ui,
		out:    out,
		outDir: ".",
	}
}

func (a *app) run(ctx context.Context) error {
	for {
		if err := a.chooseFile(ctx); err != nil {
			return err
		}
		quit, err := a.configure(ctx)
		if err != nil || quit {
			return err
		}
	}
}

// chooseFile loops until a resume is parsed.
func (a *app) chooseFile(ctx context.Context) error {
	last := ""
	for {
		path, err := a.ui.Input("Resume PDF path:", last, fileExists)
		if err != nil {
			return err
		}
		last = path
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(a.out, "Cannot read %s: %v\n", path, err)
			continue
		}
		if err := a.sess.SelectFile(filepath.Base(path), content); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Parsing resume...")
		if err := a.sess.Upload(ctx); err != nil {
			fmt.Fprintf(a.out, "Upload failed: %s\n", a.sess.View().LastError)
			continue
		}
		v := a.sess.View()
		fmt.Fprintf(a.out, "Parsed %s: %s, %d skills, %d projects\n", v.FileName, v.Data.Name, len(v.Data.Skills), len(v.Data.Projects))
		return nil
	}
}

// configure runs the action menu. It reports quit when the user is done and
// returns without quit after a reset.
func (a *app) configure(ctx context.Context) (bool, error) {
	for {
		v := a.sess.View()
		choice, err := a.ui.Select(fmt.Sprintf("Template %s / %s. Next:", v.Selection.TemplateID, v.Selection.FrontendType), menu, actGenerate)
		if err != nil {
			return false, err
		}
		switch choice {
		case actEdit:
			err = a.edit()
		case actTemplate:
			err = a.chooseTemplate(ctx)
		case actGenerate:
			err = a.generate(ctx)
		case actDeploy:
			err = a.deploy(ctx)
		case actReset:
			return false, a.sess.Reset()
		case actQuit:
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}
}

func (a *app) edit() error {
	v := a.sess.View()
	text, err := portfolio.EncodeResumeData(*v.Data)
	if err != nil {
		return err
	}
	edited, err := a.ui.Edit("Edit resume data", text)
	if err != nil {
		return err
	}
	if err := a.sess.EditData(edited); err != nil {
		fmt.Fprintf(a.out, "Edit rejected: %s\n", session.Detail(err))
	}
	return nil
}

func (a *app) chooseTemplate(ctx context.Context) error {
	if a.catalog == nil {
		list, err := a.api.Templates(ctx)
		if err != nil {
			fmt.Fprintf(a.out, "Cannot load templates: %s\n", session.Detail(err))
			return nil
		}
		a.catalog = list
	}
	if len(a.catalog) == 0 {
		fmt.Fprintln(a.out, "No templates available")
		return nil
	}

	v := a.sess.View()
	ids := make([]string, len(a.catalog))
	for i, t := range a.catalog {
		ids[i] = t.ID
	}
	id, err := a.ui.Select("Template:", ids, string(v.Selection.TemplateID))
	if err != nil {
		return err
	}
	var frontends []string
	for _, t := range a.catalog {
		if t.ID == id {
			frontends = t.Frontends
		}
	}
	frontend := string(portfolio.FrontendHTML)
	if len(frontends) > 0 {
		frontend, err = a.ui.Select("Frontend:", frontends, string(v.Selection.FrontendType))
		if err != nil {
			return err
		}
	}
	if err := a.sess.Select(id, frontend); err != nil {
		fmt.Fprintf(a.out, "Cannot change template: %s\n", session.Detail(err))
	}
	return nil
}

func (a *app) generate(ctx context.Context) error {
	fmt.Fprintln(a.out, "Generating...")
	archive, err := a.sess.Generate(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Generation failed: %s\n", session.Detail(err))
		return nil
	}
	name := filepath.Base(archive.Name)
	if name == "." || name == "/" || name == "" {
		name = "portfolio.zip"
	}
	path := filepath.Join(a.outDir, name)
	if err := os.WriteFile(path, archive.Data, 0o644); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", path, len(archive.Data))
	return nil
}

func (a *app) deploy(ctx context.Context) error {
	gh, err := a.token(a.githubToken, "GitHub token:")
	if err != nil {
		return err
	}
	vc, err := a.token(a.vercelToken, "Vercel token:")
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deploying...")
	res, err := a.sess.Deploy(ctx, gh, vc)
	if err != nil {
		if errors.Is(err, session.ErrInFlight) || errors.Is(err, session.ErrBusy) {
			return err
		}
		fmt.Fprintf(a.out, "Deploy failed: %s\n", session.Detail(err))
		if url := a.sess.View().PartialRepoURL; url != "" {
			fmt.Fprintf(a.out, "The repository was created: %s\n", url)
		}
		return nil
	}
	fmt.Fprintf(a.out, "Repository: %s\n", res.RepoURL)
	fmt.Fprintf(a.out, "Site: https://%s\n", res.VercelDomain)
	return nil
}

func (a *app) token(preset, message string) (string, error) {
	if strings.TrimSpace(preset) != "" {
		return preset, nil
	}
	return a.ui.Password(message)
}

func fileExists(path string) error {
	info, err := os.Stat(strings.TrimSpace(path))
	if err != nil {
		return errors.New("file not found")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}
