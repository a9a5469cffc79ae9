package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireClearance aborts with 403 unless the authenticated caller holds at
// least min.  It must run after Auth.Required.
func RequireClearance(min int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			if u.ClearanceLevel < min {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient clearance level"})
			}
			return next(c)
		}
	}
}
