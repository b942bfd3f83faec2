package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "ecotrack-backend/internal/auth"
	"ecotrack-backend/internal/certificates"
	"ecotrack-backend/internal/departments"
	"ecotrack-backend/internal/products"
	"ecotrack-backend/internal/services/health"
	"ecotrack-backend/internal/shared/config"
	"ecotrack-backend/internal/shared/metrics"
	"ecotrack-backend/internal/shared/server/middleware"
	"ecotrack-backend/internal/shared/server/respond"
	"ecotrack-backend/internal/surveys"
	"ecotrack-backend/internal/users"
)

// RouterDeps carries the handlers mounted under /api/v1.
type RouterDeps struct {
	Config             config.Config
	Health             *health.Service
	GoogleAuth         *googleauth.GoogleService
	UserHandler        *users.Handler
	ProductHandler     *products.Handler
	SurveyHandler      *surveys.Handler
	CertificateHandler *certificates.Handler
	DepartmentHandler  *departments.Handler
	RateLimiter        *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRateLimitRules(cfg.RateLimitRPS, cfg.RateLimitBurst),
			GroupFor: middleware.GroupForRoute,
			Limiter:  deps.RateLimiter,
		}),
		middleware.Auth(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		status, ok := deps.Health.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ProductHandler != nil {
		deps.ProductHandler.RegisterRoutes(api)
	}
	if deps.SurveyHandler != nil {
		deps.SurveyHandler.RegisterRoutes(api)
	}
	if deps.CertificateHandler != nil {
		deps.CertificateHandler.RegisterRoutes(api)
	}
	if deps.DepartmentHandler != nil {
		deps.DepartmentHandler.RegisterRoutes(api)
	}

	return r
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
