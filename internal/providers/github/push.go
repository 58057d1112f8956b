package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	billyutil "github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"portfolio-backend/internal/portfolio"
)

// Branch is the branch the initial commit is pushed to.
const Branch = "main"

const (
	commitAuthorName  = "Resume2Portfolio"
	commitAuthorEmail = "bot@resume2portfolio.local"
	commitMessage     = "Initial portfolio commit"
)

// ErrNothingToPush is returned for an empty file set.
var ErrNothingToPush = errors.New("no files to push")

// Push writes files into an in-memory repository, commits them on main and
// pushes the branch to remoteURL. It returns the commit hash.
func Push(ctx context.Context, remoteURL, token string, files []portfolio.RenderedArtifact, when time.Time) (string, error) {
	if len(files) == 0 {
		return "", ErrNothingToPush
	}

	fs := memfs.New()
	repo, err := git.InitWithOptions(memory.NewStorage(), fs, git.InitOptions{
		DefaultBranch: plumbing.NewBranchReferenceName(Branch),
	})
	if err != nil {
		return "", fmt.Errorf("init repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}

	for _, f := range files {
		name := strings.TrimPrefix(path.Clean("/"+f.Path), "/")
		if dir := path.Dir(name); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		if err := billyutil.WriteFile(fs, name, []byte(f.Content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			return "", fmt.Errorf("stage %s: %w", name, err)
		}
	}

	sig := &object.Signature{Name: commitAuthorName, Email: commitAuthorEmail, When: when}
	hash, err := wt.Commit(commitMessage, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{remoteURL},
	}); err != nil {
		return "", fmt.Errorf("add remote: %w", err)
	}

	ref := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", Branch, Branch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []config.RefSpec{ref},
		Auth:       authFor(remoteURL, token),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
			return "", fmt.Errorf("push: %w", ErrBadCredentials)
		}
		return "", fmt.Errorf("push: %w", err)
	}
	return hash.String(), nil
}

// authFor returns basic auth for https remotes only; local and file remotes
// take no credentials.
func authFor(remoteURL, token string) transport.AuthMethod {
	if token == "" || !strings.HasPrefix(strings.ToLower(remoteURL), "https://") {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: token}
}
