// Package client is a Go SDK for the portfolio backend API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
)

// Client calls the portfolio backend over HTTP.
type Client struct {
	baseURL    string
	guestID    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithGuestID sends X-Guest-Id so history and rate limits follow this caller.
func WithGuestID(id string) Option {
	return func(c *Client) {
		c.guestID = id
	}
}

// NewClient creates a new portfolio backend client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Detail  string
	Code    string
	RepoURL string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.Status, e.Code, e.Detail)
	}
	return fmt.Sprintf("API error %d: %s", e.Status, e.Detail)
}

// UserDetail is the server's message, shown to users verbatim.
func (e *APIError) UserDetail() string {
	return e.Detail
}

// Unwrap maps the error code back to the pipeline's error kinds so callers
// can use errors.Is and errors.As as they would server-side.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation_error":
		return portfolio.ErrValidation
	case "unknown_template":
		return portfolio.ErrUnknownTemplate
	case "unknown_frontend_type":
		return portfolio.ErrUnknownFrontendType
	case "render_error":
		return portfolio.ErrRender
	case "packaging_error":
		return portfolio.ErrPackaging
	case "github_error":
		return &portfolio.ProviderError{Provider: portfolio.ProviderGitHub, Step: "deploy", RepoURL: e.RepoURL, Err: errors.New(e.Detail)}
	case "vercel_error":
		return &portfolio.ProviderError{Provider: portfolio.ProviderVercel, Step: "deploy", RepoURL: e.RepoURL, Err: errors.New(e.Detail)}
	case "connectivity_error":
		return portfolio.ErrConnectivity
	}
	return nil
}

type parseResponse struct {
	FileName   string               `json:"filename"`
	ParsedData portfolio.ResumeData `json:"parsed_data"`
}

type generateBody struct {
	ParsedData   *portfolio.ResumeData `json:"parsed_data"`
	Template     string                `json:"template"`
	FrontendType string                `json:"frontend_type"`
}

type deployBody struct {
	generateBody
	GitHubToken string `json:"github_token"`
	VercelToken string `json:"vercel_token"`
}

// Parse uploads a resume file and returns the parsed data.
func (c *Client) Parse(ctx context.Context, fileName string, content []byte) (portfolio.ResumeData, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return portfolio.ResumeData{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return portfolio.ResumeData{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return portfolio.ResumeData{}, fmt.Errorf("failed to build upload: %w", err)
	}

	body, _, err := c.doRequest(ctx, http.MethodPost, "/upload", w.FormDataContentType(), &buf)
	if err != nil {
		return portfolio.ResumeData{}, err
	}
	var result parseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return portfolio.ResumeData{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.ParsedData.Normalized(), nil
}

// Generate requests a zip archive for req.
func (c *Client) Generate(ctx context.Context, req portfolio.GenerationRequest) (portfolio.Archive, error) {
	payload, err := json.Marshal(toGenerateBody(req))
	if err != nil {
		return portfolio.Archive{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	body, header, err := c.doRequest(ctx, http.MethodPost, "/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return portfolio.Archive{}, err
	}
	return portfolio.Archive{Name: attachmentName(header), Data: body}, nil
}

// Deploy publishes req to GitHub and Vercel.
func (c *Client) Deploy(ctx context.Context, req portfolio.DeploymentRequest) (portfolio.DeploymentResult, error) {
	payload, err := json.Marshal(deployBody{
		generateBody: toGenerateBody(req.GenerationRequest),
		GitHubToken:  req.GitHubToken,
		VercelToken:  req.VercelToken,
	})
	if err != nil {
		return portfolio.DeploymentResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	body, _, err := c.doRequest(ctx, http.MethodPost, "/deploy", "application/json", bytes.NewReader(payload))
	if err != nil {
		return portfolio.DeploymentResult{}, err
	}
	var result portfolio.DeploymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return portfolio.DeploymentResult{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result, nil
}

// Template is one catalog entry from GET /templates.
type Template struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Version     int      `json:"version"`
	Frontends   []string `json:"frontends"`
}

// Templates lists the available templates.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	body, _, err := c.doRequest(ctx, http.MethodGet, "/templates", "", nil)
	if err != nil {
		return nil, err
	}
	var result []Template
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result, nil
}

func toGenerateBody(req portfolio.GenerationRequest) generateBody {
	return generateBody{
		ParsedData:   req.ResumeData,
		Template:     string(req.TemplateID),
		FrontendType: string(req.FrontendType),
	}
}

func (c *Client) doRequest(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.guestID != "" {
		req.Header.Set("X-Guest-Id", c.guestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", portfolio.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read response: %v", portfolio.ErrConnectivity, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, decodeAPIError(resp.StatusCode, respBody)
	}
	return respBody, resp.Header, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var parsed struct {
		Detail  string `json:"detail"`
		Code    string `json:"code"`
		RepoURL string `json:"repo_url"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		apiErr.Detail = parsed.Detail
		apiErr.Code = parsed.Code
		apiErr.RepoURL = parsed.RepoURL
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(body))
	if apiErr.Detail == "" {
		apiErr.Detail = http.StatusText(status)
	}
	return apiErr
}

func attachmentName(h http.Header) string {
	_, params, err := mime.ParseMediaType(h.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}
