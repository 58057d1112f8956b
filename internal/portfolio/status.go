package portfolio

import (
	"errors"
	"net/http"
	"strings"
)

// ParseSelection maps request strings to a Selection. Blank values fall back
// to DefaultSelection; unknown values are kept so the registry can reject them.
func ParseSelection(templateID, frontend string) Selection {
	sel := DefaultSelection()
	if t := strings.ToLower(strings.TrimSpace(templateID)); t != "" {
		sel.TemplateID = TemplateID(t)
	}
	if f := strings.ToLower(strings.TrimSpace(frontend)); f != "" {
		sel.FrontendType = FrontendType(f)
	}
	return sel
}

// StatusFor maps pipeline errors to an HTTP status and a stable error code.
func StatusFor(err error) (int, string) {
	var perr *ProviderError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrUnknownTemplate):
		return http.StatusBadRequest, "unknown_template"
	case errors.Is(err, ErrUnknownFrontendType):
		return http.StatusBadRequest, "unknown_frontend_type"
	case errors.Is(err, ErrRender):
		return http.StatusUnprocessableEntity, "render_error"
	case errors.Is(err, ErrPackaging):
		return http.StatusInternalServerError, "packaging_error"
	case errors.As(err, &perr):
		return http.StatusBadGateway, string(perr.Provider) + "_error"
	case errors.Is(err, ErrConnectivity):
		return http.StatusBadGateway, "connectivity_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
