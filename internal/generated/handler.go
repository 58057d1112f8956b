package generated

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes archive generation and history over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches history routes. POST /generate is mounted by the
// router so it can be wrapped with rate limiting and single-flight guards.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/portfolios", h.list)
	rg.GET("/portfolios/:id/download", h.download)
}

// Generate handles POST /generate and streams the archive back.
func (h *Handler) Generate(c *gin.Context) {
	var body GenerateRequest
	if err := decodeJSON(c.Request.Body, &body); err != nil {
		metrics.IncGenerate("invalid")
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	req := body.ToDomain()
	c.Set("selection", string(req.TemplateID)+"/"+string(req.FrontendType))

	res, err := h.Svc.Generate(c.Request.Context(), middleware.OwnerIDFromContext(c), req)
	if err != nil {
		status, code := portfolio.StatusFor(err)
		metrics.IncGenerate(code)
		detail := err.Error()
		if status == http.StatusInternalServerError {
			detail = "Error generating portfolio"
		}
		respond.Error(c, status, code, detail, nil)
		return
	}

	metrics.IncGenerate("ok")
	metrics.ObserveArchiveBytes(len(res.Archive))
	c.Set("portfolioId", res.Portfolio.ID)
	c.Header("X-Portfolio-Id", res.Portfolio.ID)
	respond.Attachment(c, res.Portfolio.ArchiveName, archiveContentType, res.Archive)
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
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list portfolios", nil)
		return
	}
	resp := make([]PortfolioResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toPortfolioResponse(p))
	}
	respond.OK(c, resp)
}

func (h *Handler) download(c *gin.Context) {
	p, rc, err := h.Svc.Open(c.Request.Context(), middleware.OwnerIDFromContext(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "portfolio not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load portfolio", nil)
		}
		return
	}
	defer rc.Close()

	c.Set("portfolioId", p.ID)
	c.Header("Content-Type", archiveContentType)
	c.Header("Content-Disposition", `attachment; filename="`+p.ArchiveName+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func decodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}
