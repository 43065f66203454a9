package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookshelf/review-service/docs"
	"github.com/bookshelf/review-service/internal/api/handler"
	"github.com/bookshelf/review-service/internal/api/middleware"
	"github.com/bookshelf/review-service/internal/core/ports"
	"github.com/bookshelf/review-service/internal/infrastructure/http/handlers"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Reviews ports.ReviewService
}

// RouterConfig carries everything NewRouter wires into the Echo instance.
type RouterConfig struct {
	Services  Services
	Readiness *handlers.ReadinessHandler
	Logger    zerolog.Logger
	// Registry receives the HTTP request metrics and backs /metrics. Nil uses
	// the Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	svc, log := cfg.Services, cfg.Logger

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bookshelf",
		Registerer: registerer,
	}))
	e.Use(middleware.AccessLog(log))

	authHandler := handler.NewAuthHandler(svc.Auth)
	bookHandler := handler.NewBookHandler(svc.Catalog)
	reviewHandler := handler.NewReviewHandler(svc.Reviews)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Catalog and review writes ---
	books := api.Group("/books")
	books.GET("", bookHandler.Popular)
	books.GET("/search", bookHandler.Search)
	books.GET("/author/:authorName", bookHandler.ByAuthor)
	books.GET("/title/:title", bookHandler.ByTitle)
	books.GET("/review/:isbn", bookHandler.ReviewData)
	books.GET("/:isbn", bookHandler.ByISBN)
	books.POST("/review/add", reviewHandler.Add)
	books.PUT("/review/update/:id", reviewHandler.Update)
	books.DELETE("/review/delete/:id", reviewHandler.Delete)

	// --- Review reads ---
	api.GET("/reviews", reviewHandler.List)
	api.GET("/reviews/:id", reviewHandler.Get)

	// --- Operations ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	if cfg.Readiness != nil {
		e.GET("/health/ready", cfg.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
