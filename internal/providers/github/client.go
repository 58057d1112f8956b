package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com"

// ErrBadCredentials is returned when GitHub rejects the token.
var ErrBadCredentials = errors.New("github rejected the token")

// ErrRepoExists is returned when the account already has a repository with that name.
var ErrRepoExists = errors.New("github repository already exists")

// Repository is the subset of the GitHub repository resource the pipeline needs.
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
}

// Client talks to the GitHub REST API on behalf of a caller-supplied token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. An empty baseURL targets api.github.com.
func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"errors"`
}

// CreateRepository creates an empty public repository owned by the token's user.
func (c *Client) CreateRepository(ctx context.Context, token, name string) (Repository, error) {
	if strings.TrimSpace(token) == "" {
		return Repository{}, ErrBadCredentials
	}
	payload, err := json.Marshal(createRepoRequest{
		Name:        name,
		Description: "Portfolio generated from a resume",
	})
	if err != nil {
		return Repository{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/repos", bytes.NewReader(payload))
	if err != nil {
		return Repository{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.authorized(ctx, token).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return Repository{}, fmt.Errorf("github request timeout: %w", err)
		}
		return Repository{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Repository{}, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Repository{}, ErrBadCredentials
	case resp.StatusCode == http.StatusUnprocessableEntity && mentionsExisting(body):
		return Repository{}, fmt.Errorf("%w: %s", ErrRepoExists, name)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Repository{}, fmt.Errorf("github create repository: status %d: %s", resp.StatusCode, errorMessage(body))
	}

	var repo Repository
	if err := json.Unmarshal(body, &repo); err != nil {
		return Repository{}, fmt.Errorf("github response parse: %w", err)
	}
	if repo.CloneURL == "" || repo.HTMLURL == "" {
		return Repository{}, errors.New("github response missing repository urls")
	}
	return repo, nil
}

// authorized returns an http.Client that adds the bearer token while keeping
// the configured timeout and transport.
func (c *Client) authorized(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = c.httpClient.Timeout
	return client
}

func mentionsExisting(body []byte) bool {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false
	}
	for _, e := range parsed.Errors {
		if strings.Contains(strings.ToLower(e.Message), "already exists") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(parsed.Message), "already exists")
}

func errorMessage(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
