package deploy

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes deployments over HTTP.
type Handler struct {
	Svc *Service
	// DefaultVercelToken is used when a request omits vercel_token.
	DefaultVercelToken string
}

func NewHandler(svc *Service, defaultVercelToken string) *Handler {
	return &Handler{Svc: svc, DefaultVercelToken: defaultVercelToken}
}

// RegisterRoutes attaches history routes. POST /deploy is mounted by the
// router behind rate limiting and single-flight guards.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/deployments", h.list)
	rg.GET("/deployments/:id", h.get)
}

// Deploy handles POST /deploy.
func (h *Handler) Deploy(c *gin.Context) {
	start := time.Now()
	var body DeployRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		detail := "invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			detail = "request body is required"
		}
		metrics.IncDeploy("invalid")
		respond.Error(c, http.StatusBadRequest, "validation_error", detail, nil)
		return
	}
	req := body.ToDomain(h.DefaultVercelToken)
	c.Set("selection", string(req.TemplateID)+"/"+string(req.FrontendType))

	d, out, err := h.Svc.Deploy(c.Request.Context(), middleware.OwnerIDFromContext(c), req)
	if d.ID != "" {
		c.Set("deploymentId", d.ID)
		c.Header("X-Deployment-Id", d.ID)
		metrics.ObserveDeployDurationMs(metrics.SinceMillis(start))
	}
	if err != nil {
		status, code := portfolio.StatusFor(err)
		metrics.IncDeploy(code)
		detail := err.Error()
		if status == http.StatusInternalServerError {
			detail = "Error deploying portfolio"
		}
		var extra map[string]any
		if out.RepoCreated && out.RepoURL != "" {
			extra = map[string]any{"repo_url": out.RepoURL}
		}
		respond.Error(c, status, code, detail, extra)
		return
	}

	metrics.IncDeploy("ok")
	respond.OK(c, out.Result())
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), middleware.OwnerIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list deployments", nil)
		return
	}
	resp := make([]DeploymentResponse, 0, len(items))
	for _, d := range items {
		resp = append(resp, toDeploymentResponse(d))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), middleware.OwnerIDFromContext(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "deployment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load deployment", nil)
		}
		return
	}
	c.Set("deploymentId", d.ID)
	respond.OK(c, toDeploymentResponse(d))
}
