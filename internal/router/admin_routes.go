package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/clearance"
	"github.com/eternal-sentinels/es-archive/internal/handler"
	"github.com/eternal-sentinels/es-archive/internal/middleware"
)

// RegisterAdmin registers account management and dossier review under
// /api/admin.  Every route requires level 5.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, d *handler.DossierHandler, auth *middleware.Auth) {
	g := e.Group("/api/admin", auth.Required(), middleware.RequireClearance(clearance.MaxLevel))
	g.GET("/users", a.ListUsers)
	g.PUT("/users/:id/clearance", a.SetClearance)
	g.PUT("/users/:id/status", a.SetStatus)

	g.GET("/dossiers", d.List)
	g.GET("/dossiers/:id", d.Get)
	g.PUT("/dossiers/:id/moderate", d.Moderate)
}

// RegisterDossier registers the submitter side of dossier review.
func RegisterDossier(e *echo.Echo, d *handler.DossierHandler, auth *middleware.Auth) {
	g := e.Group("/api/dossier", auth.Required())
	g.POST("/submit", d.Submit)
	g.GET("/my-submissions", d.Mine)
	g.GET("/status", d.Status)
}
