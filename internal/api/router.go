package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/soundwave/accounts-api/docs"
	"github.com/soundwave/accounts-api/internal/api/handler"
	"github.com/soundwave/accounts-api/internal/api/metrics"
	"github.com/soundwave/accounts-api/internal/api/middleware"
	"github.com/soundwave/accounts-api/internal/core/ports"
	"github.com/soundwave/accounts-api/internal/core/service"
)

// Deps are the collaborators the router wires into the handlers.
type Deps struct {
	Accounts ports.AccountRepository
	Hasher   ports.PasswordHasher
	Logger   zerolog.Logger

	// StoreName labels the store in the readiness report. Defaults to "store".
	StoreName string

	// Registerer and Gatherer back the HTTP metrics and GET /metrics.
	// Nil means the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.StoreName == "" {
		d.StoreName = "store"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "accounts",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	// --- Dependencies ---
	accountService := service.NewAccountService(d.Accounts, metrics.TimedHasher(d.Hasher), d.Logger)
	accountHandler := handler.NewAccountHandler(accountService)

	// --- Account routes ---
	e.POST("/register", accountHandler.Register)
	e.POST("/login", accountHandler.Login)
	e.POST("/check-email", accountHandler.CheckEmail)
	e.POST("/reset-password", accountHandler.ResetPassword)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(map[string]handler.Pinger{
		d.StoreName: d.Accounts,
	}, d.Logger)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the store up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
