package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/clearance"
	"github.com/eternal-sentinels/es-archive/internal/handler"
	"github.com/eternal-sentinels/es-archive/internal/middleware"
)

// RegisterObjects registers the catalogue under /api/scp.  Reads accept
// anonymous callers and are cached per clearance level; writes need level 5
// and purge the cache once they succeed.
func RegisterObjects(e *echo.Echo, h *handler.ObjectHandler, auth *middleware.Auth, cache, purge echo.MiddlewareFunc) {
	read := e.Group("/api/scp", auth.Optional(), cache)
	read.GET("", h.List)
	read.GET("/:number", h.Get)

	write := e.Group("/api/scp", auth.Required(), middleware.RequireClearance(clearance.MaxLevel), purge)
	write.POST("", h.Create)
	write.PUT("/:number", h.Update)
	write.DELETE("/:number", h.Delete)
}
