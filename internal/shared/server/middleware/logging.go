package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers may set
// "portfolioId", "deploymentId" and "selection" on the context to enrich it.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"owner_id":    OwnerIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for ctxKey, field := range map[string]string{
			"portfolioId":  "portfolio_id",
			"deploymentId": "deployment_id",
			"selection":    "selection",
		} {
			if v := c.GetString(ctxKey); v != "" {
				fields[field] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
