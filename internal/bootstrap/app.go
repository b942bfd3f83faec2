package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "ecotrack-backend/internal/auth"
	"ecotrack-backend/internal/certificates"
	"ecotrack-backend/internal/departments"
	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/inference"
	"ecotrack-backend/internal/inference/huggingface"
	"ecotrack-backend/internal/products"
	"ecotrack-backend/internal/services/health"
	"ecotrack-backend/internal/shared/config"
	"ecotrack-backend/internal/shared/server"
	"ecotrack-backend/internal/shared/server/middleware"
	"ecotrack-backend/internal/shared/storage/db"
	"ecotrack-backend/internal/shared/storage/object"
	localstore "ecotrack-backend/internal/shared/storage/object/local"
	s3store "ecotrack-backend/internal/shared/storage/object/s3"
	"ecotrack-backend/internal/surveys"
	"ecotrack-backend/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Store               object.ObjectStore
	Inference           inference.Client
	ProductsRepo        products.Repo
	SurveysRepo         surveys.Repo
	CertificatesRepo    certificates.Repo
	UsersRepo           users.Repo
	ProductsService     *products.Service
	SurveysService      *surveys.Service
	CertificatesService *certificates.Service
	UsersService        *users.Service
	HealthService       *health.Service
	ProductsHandler     *products.Handler
	SurveysHandler      *surveys.Handler
	CertificatesHandler *certificates.Handler
	DepartmentsHandler  *departments.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *googleauth.GoogleService
}

// Options overrides pieces of the dependency graph, mainly for tests.
type Options struct {
	Inference     inference.Client
	Analyzer      *ecoscore.Analyzer
	RetryDelay    time.Duration
	RateLimiter   *middleware.RateLimiter
	SkipMigration bool
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(cfg, Options{})
}

// BuildWithOptions is Build with overrides.
func BuildWithOptions(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := opts.Inference
	if client == nil {
		client, err = buildInference(cfg, opts.RetryDelay)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Inference: client,
	}

	buildServices(app, opts)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		Health:             app.HealthService,
		GoogleAuth:         app.GoogleAuth,
		UserHandler:        app.UsersHandler,
		ProductHandler:     app.ProductsHandler,
		SurveyHandler:      app.SurveysHandler,
		CertificateHandler: app.CertificatesHandler,
		DepartmentHandler:  app.DepartmentsHandler,
		RateLimiter:        opts.RateLimiter,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	poolOpts := db.ServerOptions().Merge(db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		PingTimeout:     cfg.DBPingTimeout,
	})
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, poolOpts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if !opts.SkipMigration {
		version, err := db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Printf("bootstrap: database at migration version %d", version)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildInference(cfg config.Config, retryDelay time.Duration) (inference.Client, error) {
	if cfg.InferenceProvider != "huggingface" || strings.TrimSpace(cfg.HuggingFaceToken) == "" {
		log.Printf("bootstrap: inference disabled; analyses store the default insight")
		return inference.PlaceholderClient{}, nil
	}
	hf, err := huggingface.NewClient(cfg.HuggingFaceToken, cfg.HuggingFaceModel, nil)
	if err != nil {
		return nil, err
	}
	return inference.WithRetry(hf, inference.RetryOptions{Delay: retryDelay}), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App, opts Options) {
	if app.DB != nil {
		app.ProductsRepo = &products.PGRepo{DB: app.DB}
		app.SurveysRepo = &surveys.PGRepo{DB: app.DB}
		app.CertificatesRepo = &certificates.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.ProductsRepo = products.NewMemoryRepo()
		app.SurveysRepo = surveys.NewMemoryRepo()
		app.CertificatesRepo = certificates.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	analyzer := ecoscore.Analyzer{}
	if opts.Analyzer != nil {
		analyzer = *opts.Analyzer
	}

	app.ProductsService = &products.Service{
		Store:         app.Store,
		Repo:          app.ProductsRepo,
		Analyzer:      analyzer,
		Inference:     app.Inference,
		PublicBaseURL: app.Config.PublicBaseURL,
	}
	app.SurveysService = surveys.NewService(app.SurveysRepo)
	app.CertificatesService = certificates.NewService(app.CertificatesRepo)
	app.UsersService = users.NewService(app.UsersRepo)
	app.HealthService = health.NewService(app.DB, app.Config.DBPingTimeout)

	app.ProductsHandler = products.NewHandler(app.ProductsService, app.Config.MaxUploadBytes)
	app.SurveysHandler = surveys.NewHandler(app.SurveysService)
	app.CertificatesHandler = certificates.NewHandler(app.CertificatesService)
	app.DepartmentsHandler = departments.NewHandler()
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
		googleauth.RoleLists{
			Admin:        app.Config.AdminEmails,
			Organization: app.Config.OrgEmails,
		},
	)
}
