package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/lock"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/telemetry"
)

// SingleFlight rejects a second request for the same action from the same
// caller while the first is still running. ttl bounds how long a crashed
// holder can block the caller.
func SingleFlight(locker lock.Locker, action string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if locker == nil {
			c.Next()
			return
		}
		key := action + "|" + OwnerIDFromContext(c)
		release, err := locker.Acquire(c.Request.Context(), key, ttl)
		if errors.Is(err, lock.ErrHeld) {
			respond.Error(c, http.StatusConflict, "in_flight", "A "+action+" request is already in progress", nil)
			return
		}
		if err != nil {
			// Lock backend outages must not block deployments.
			telemetry.Warn("singleflight.unavailable", map[string]any{
				"action":     action,
				"request_id": RequestIDFromContext(c),
				"error":      err.Error(),
			})
			c.Next()
			return
		}
		defer release()
		c.Next()
	}
}
