package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/deploy"
	"portfolio-backend/internal/generated"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/lock"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/templates"
	"portfolio-backend/internal/uploads"
)

const (
	rateGroupGenerate = "generate"
	rateGroupDeploy   = "deploy"
)

// RouterDeps carries the handlers and shared services mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	Templates       *templates.Registry
	Locker          lock.Locker
	RateLimiter     *middleware.RateLimiter
	UploadHandler   *uploads.Handler
	GenerateHandler *generated.Handler
	DeployHandler   *deploy.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Identity(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupGenerate: middleware.PerMinute(cfg.GeneratePerMinute),
				rateGroupDeploy:   middleware.PerMinute(cfg.DeployPerMinute),
			},
			GroupFor: rateGroupFor,
			Limiter:  deps.RateLimiter,
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{"message": "Resume2Portfolio Backend"})
	})
	r.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	r.GET("/metrics", metrics.Handler())
	if deps.Templates != nil {
		r.GET("/templates", func(c *gin.Context) {
			respond.OK(c, deps.Templates.List())
		})
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(r)
	}
	if deps.GenerateHandler != nil {
		r.POST("/generate", middleware.SingleFlight(deps.Locker, "generate", lockTTL(cfg.ProviderTimeout)), deps.GenerateHandler.Generate)
		deps.GenerateHandler.RegisterRoutes(r)
	}
	if deps.DeployHandler != nil {
		r.POST("/deploy", middleware.SingleFlight(deps.Locker, "deploy", lockTTL(cfg.ProviderTimeout)), deps.DeployHandler.Deploy)
		deps.DeployHandler.RegisterRoutes(r)
	}

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/generate":
		return rateGroupGenerate
	case "/deploy":
		return rateGroupDeploy
	}
	return ""
}

// lockTTL covers the three sequential provider calls of a deploy.
func lockTTL(providerTimeout time.Duration) time.Duration {
	if providerTimeout <= 0 {
		providerTimeout = 30 * time.Second
	}
	return 3*providerTimeout + 30*time.Second
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
