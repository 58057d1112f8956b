package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/deploy"
	"portfolio-backend/internal/generated"
	"portfolio-backend/internal/providers/github"
	"portfolio-backend/internal/providers/vercel"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/lock"
	"portfolio-backend/internal/shared/server"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/storage/db"
	"portfolio-backend/internal/shared/storage/object"
	localstore "portfolio-backend/internal/shared/storage/object/local"
	memstore "portfolio-backend/internal/shared/storage/object/memory"
	s3store "portfolio-backend/internal/shared/storage/object/s3"
	"portfolio-backend/internal/templates"
	"portfolio-backend/internal/uploads"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.Store
	Locker          lock.Locker
	Templates       *templates.Registry
	Health          *health.Service
	PortfoliosRepo  generated.Repo
	DeploymentsRepo deploy.Repo
	GenerateService *generated.Service
	DeployService   *deploy.Service
	UploadService   *uploads.Service
	UploadHandler   *uploads.Handler
	GenerateHandler *generated.Handler
	DeployHandler   *deploy.Handler
	closers         []func() error
}

// Build wires storage, providers and handlers and mounts the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	reg, err := templates.Default()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Templates: reg,
		Health:    health.NewService(),
	}
	app.Locker = buildLocker(ctx, app)

	if err := buildServices(app); err != nil {
		return nil, err
	}
	registerChecks(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.Health,
		Templates:       app.Templates,
		Locker:          app.Locker,
		RateLimiter:     middleware.NewRateLimiter(nil),
		UploadHandler:   app.UploadHandler,
		GenerateHandler: app.GenerateHandler,
		DeployHandler:   app.DeployHandler,
	})

	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultOptions(db.ProfileLambda)))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultOptions(db.ProfileServer)))
	}
	if err == nil {
		if mErr := db.RunMigrations(ctx, sqlDB); mErr != nil {
			err = fmt.Errorf("run migrations: %w", mErr)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "memory":
		return memstore.New(), nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLocker prefers Redis so single-flight holds across instances, and
// falls back to a process-local lock when Redis is absent or unreachable.
func buildLocker(ctx context.Context, app *App) lock.Locker {
	url := strings.TrimSpace(app.Config.RedisURL)
	if url == "" {
		return lock.NewMemory()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rl, err := lock.NewRedis(pingCtx, url)
	if err != nil {
		log.Printf("bootstrap: redis unavailable; using in-process locks: %v", err)
		return lock.NewMemory()
	}
	app.closers = append(app.closers, rl.Close)
	return rl
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.PortfoliosRepo = &generated.PGRepo{DB: app.DB}
		app.DeploymentsRepo = &deploy.PGRepo{DB: app.DB}
	} else {
		app.PortfoliosRepo = generated.NewMemoryRepo()
		app.DeploymentsRepo = deploy.NewMemoryRepo()
	}

	cfg := app.Config
	app.UploadService = &uploads.Service{Store: app.Store}
	app.GenerateService = &generated.Service{
		Catalog: app.Templates,
		Repo:    app.PortfoliosRepo,
		Store:   app.Store,
	}
	app.DeployService = &deploy.Service{
		Orchestrator: &deploy.Orchestrator{
			Catalog: app.Templates,
			Source:  deploy.GitHub{Client: github.New(cfg.GitHubAPIURL, cfg.ProviderTimeout)},
			Hosting: deploy.Vercel{Client: vercel.New(cfg.VercelAPIURL, cfg.VercelTeamID, cfg.ProviderTimeout)},
		},
		Repo: app.DeploymentsRepo,
	}

	app.UploadHandler = uploads.NewHandler(app.UploadService)
	app.GenerateHandler = generated.NewHandler(app.GenerateService)
	app.DeployHandler = deploy.NewHandler(app.DeployService, cfg.VercelToken)

	if app.UploadHandler == nil || app.GenerateHandler == nil || app.DeployHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func registerChecks(app *App) {
	app.Health.Register("templates", func(context.Context) error {
		if len(app.Templates.List()) == 0 {
			return errors.New("no templates registered")
		}
		return nil
	})
	if app.DB != nil {
		app.Health.Register("database", app.DB.PingContext)
	}
	if p, ok := app.Locker.(interface{ Ping(context.Context) error }); ok {
		app.Health.Register("redis", p.Ping)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
