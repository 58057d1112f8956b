package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.vercel.com"

// ErrBadCredentials is returned when Vercel rejects the token.
var ErrBadCredentials = errors.New("vercel rejected the token")

// Project is the subset of the Vercel project resource used here.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Deployment is the subset of the Vercel deployment resource used here.
type Deployment struct {
	ID    string   `json:"id"`
	URL   string   `json:"url"`
	Alias []string `json:"alias"`
}

// Client creates projects and deployments through the Vercel REST API.
type Client struct {
	baseURL    string
	teamID     string
	httpClient *http.Client
}

// New constructs a Client. teamID scopes requests to a team when non-empty.
func New(baseURL, teamID string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		teamID:     strings.TrimSpace(teamID),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type gitRepository struct {
	Type string `json:"type"`
	Repo string `json:"repo"`
}

type createProjectRequest struct {
	Name          string        `json:"name"`
	Framework     *string       `json:"framework"`
	GitRepository gitRepository `json:"gitRepository"`
}

type gitSource struct {
	Type   string `json:"type"`
	RepoID int64  `json:"repoId"`
	Ref    string `json:"ref"`
}

type createDeploymentRequest struct {
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Target    string    `json:"target"`
	GitSource gitSource `json:"gitSource"`
}

type apiError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateProject links a new project to a GitHub repository given as "owner/name".
// framework may be empty for static sites.
func (c *Client) CreateProject(ctx context.Context, token, name, repoFullName, framework string) (Project, error) {
	body := createProjectRequest{
		Name:          name,
		GitRepository: gitRepository{Type: "github", Repo: repoFullName},
	}
	if framework != "" {
		body.Framework = &framework
	}
	var project Project
	if err := c.do(ctx, token, "/v10/projects", body, &project); err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	if project.ID == "" {
		project.ID = name
	}
	if project.Name == "" {
		project.Name = name
	}
	return project, nil
}

// CreateDeployment triggers a production deployment of ref from the linked repository.
func (c *Client) CreateDeployment(ctx context.Context, token string, project Project, repoID int64, ref string) (Deployment, error) {
	body := createDeploymentRequest{
		Name:      project.Name,
		Project:   project.ID,
		Target:    "production",
		GitSource: gitSource{Type: "github", RepoID: repoID, Ref: ref},
	}
	var dep Deployment
	if err := c.do(ctx, token, "/v13/deployments", body, &dep); err != nil {
		return Deployment{}, fmt.Errorf("create deployment: %w", err)
	}
	return dep, nil
}

// Domain is the public hostname for a deployment: the first alias, else the
// project's default vercel.app domain.
func Domain(project Project, dep Deployment) string {
	for _, a := range dep.Alias {
		if strings.TrimSpace(a) != "" {
			return a
		}
	}
	return project.Name + ".vercel.app"
}

func (c *Client) do(ctx context.Context, token, path string, in, out any) error {
	if strings.TrimSpace(token) == "" {
		return ErrBadCredentials
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if c.teamID != "" {
		endpoint += "?teamId=" + url.QueryEscape(c.teamID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return fmt.Errorf("vercel request timeout: %w", err)
		}
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrBadCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, errorMessage(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("vercel response parse: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var parsed apiError
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
