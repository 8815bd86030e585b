package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/localpro/marketplace-api/docs"
	"github.com/localpro/marketplace-api/internal/api/handler"
	"github.com/localpro/marketplace-api/internal/api/middleware"
	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

// Services groups the use cases the HTTP layer exposes.
type Services struct {
	Auth     ports.AuthService
	Profile  ports.ProfileService
	Catalog  ports.CatalogService
	Requests ports.RequestService
	Feedback ports.FeedbackService
}

// Options carries the router's non-service collaborators.
type Options struct {
	// AuthLimiter guards the unauthenticated /auth routes. Nil disables it.
	AuthLimiter ports.RateLimiter
	// HealthChecks are pinged by GET /health/ready, keyed by dependency name.
	HealthChecks map[string]func(ctx context.Context) error
	// Registry receives the HTTP metrics and backs GET /metrics. Nil uses
	// the Prometheus default registry, where the domain metrics live.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "marketplace",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(svc.Auth, svc.Profile)
	profileHandler := handler.NewProfileHandler(svc.Profile)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	requestHandler := handler.NewRequestHandler(svc.Requests)
	feedbackHandler := handler.NewFeedbackHandler(svc.Feedback)
	healthHandler := handler.NewHealthHandler(opts.HealthChecks)

	authenticate := middleware.Authenticate(svc.Auth)
	customerOnly := middleware.RequireRoles(domain.RoleCustomer)
	providerOnly := middleware.RequireRoles(domain.RoleProvider)

	// --- Auth routes ---
	auth := e.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(opts.AuthLimiter, opts.Logger))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	e.GET("/auth/me", authHandler.Me, authenticate)

	// --- Public catalog ---
	e.GET("/categories", catalogHandler.ListCategories)
	e.GET("/services", catalogHandler.SearchServices)
	e.GET("/services/mine", catalogHandler.ListMyServices, authenticate, providerOnly)
	e.GET("/services/:id", catalogHandler.GetService)
	e.GET("/providers/:id", profileHandler.GetProvider)
	e.GET("/feedback/provider/:id", feedbackHandler.ListForProvider)

	// --- Authenticated routes ---
	// Middleware is attached per route; a prefix-less group would also run
	// it for unmatched paths.
	e.POST("/services", catalogHandler.CreateService, authenticate, providerOnly)
	e.PATCH("/services/:id", catalogHandler.UpdateService, authenticate, providerOnly)
	e.DELETE("/services/:id", catalogHandler.DeleteService, authenticate, providerOnly)

	e.POST("/requests", requestHandler.Create, authenticate, customerOnly)
	e.GET("/requests", requestHandler.List, authenticate)
	e.GET("/requests/:id", requestHandler.Get, authenticate)
	e.PATCH("/requests/:id", requestHandler.UpdateStatus, authenticate)

	e.POST("/feedback", feedbackHandler.Submit, authenticate, customerOnly)

	e.GET("/profile", profileHandler.Get, authenticate)
	e.PATCH("/profile", profileHandler.Update, authenticate)
	e.DELETE("/profile", profileHandler.Deactivate, authenticate)

	// --- Operational ---
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
