// Package router wires handlers and middleware onto Echo routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/handler"
	"github.com/eternal-sentinels/es-archive/internal/metrics"
	"github.com/eternal-sentinels/es-archive/internal/middleware"
)

// RegisterRoutes registers the unauthenticated service endpoints: the
// health probe, the API banner and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health)
	e.GET("/api", handler.Root)
	e.GET("/api/", handler.Root)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterAuth registers the account endpoints under /api/auth.  Logout
// runs behind optional auth so a bearer alone can end every session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth *middleware.Auth) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, auth.Optional())
	g.GET("/me", a.Me, auth.Required())
}
