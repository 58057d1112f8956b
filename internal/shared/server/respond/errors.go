package respond

import (
	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/telemetry"
)

// Error sends {"detail": ..., "code": ...} plus any extra fields and aborts.
func Error(c *gin.Context, status int, code, detail string, extra map[string]any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"detail":     detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if owner := c.GetString("ownerId"); owner != "" {
		fields["owner_id"] = owner
	}
	telemetry.Error("http.error", fields)

	body := make(gin.H, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}
	body["detail"] = detail
	body["code"] = code
	c.AbortWithStatusJSON(status, body)
}
