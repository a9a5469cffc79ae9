package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe used by load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root describes the service.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Eternal Sentinels Database API",
		"version": "2.0",
		"features": []string{
			"Authentication with JWT",
			"Clearance-based access control",
			"MAL0 AI assistant (professional mode)",
			"Admin panel for object and user management",
		},
	})
}
