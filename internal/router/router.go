package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's bundled middleware (recover, CORS, request id)
	"go.uber.org/zap"                               // structured logging

	"github.com/iliyamo/credential-service/internal/handler"    // HTTP handlers
	"github.com/iliyamo/credential-service/internal/middleware" // request logging
)

// Options configures the Echo instance built by New.
type Options struct {
	Log         *zap.Logger
	CORSOrigins []string
	Health      handler.Pinger
}

// New returns an Echo instance with the global middleware chain installed.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if opts.Log != nil {
		e.Use(middleware.RequestLogger(opts.Log))
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: opts.CORSOrigins}))
	e.Use(echomw.BodyLimit("64K"))

	RegisterRoutes(e, opts.Health)
	return e
}

// RegisterRoutes registers routes that do not belong to a feature: the
// health check.
func RegisterRoutes(e *echo.Echo, p handler.Pinger) {
	e.GET("/healthz", handler.Health(p))
}

// RegisterAuth registers the registration and login endpoints.  Neither
// requires an Authorization header.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
}
