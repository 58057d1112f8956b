package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ownerIDKey = "ownerId"

// Identity derives the caller identity used to scope history, rate limits
// and in-flight locks. Nothing here authenticates the caller.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ownerIDKey, resolveOwner(c))
		c.Next()
	}
}

func resolveOwner(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-User-Id")); id != "" {
		return "user:" + id
	}
	if id := strings.TrimSpace(c.GetHeader("X-Guest-Id")); id != "" {
		return "guest:" + id
	}
	return "anon:" + c.ClientIP()
}

// OwnerIDFromContext returns the identity set by Identity.
func OwnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(ownerIDKey)
}
