package uploads

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires POST /upload to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/upload", h.upload)
}

type uploadResponse struct {
	FileName   string               `json:"filename"`
	ParsedData portfolio.ResumeData `json:"parsed_data"`
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the 10MB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), middleware.OwnerIDFromContext(c), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotPDF):
			respond.Error(c, http.StatusBadRequest, "unsupported_file", ErrNotPDF.Error(), nil)
		case errors.Is(err, portfolio.ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrUnreadable):
			respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", ErrUnreadable.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", ErrUnreadable.Error(), nil)
		}
		return
	}

	metrics.IncUpload()
	respond.OK(c, uploadResponse{FileName: res.FileName, ParsedData: res.Parsed.Normalized()})
}
