package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// Context keys set by Auth.
const (
	keyUser      = "user"
	keyUserID    = "user_id"
	keyRequester = "requester"
)

// CurrentUser returns the authenticated account, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(keyUser).(*model.User)
	return u, ok && u != nil
}

// CurrentRequester returns the caller's profile, or the guest profile when
// nobody is authenticated.
func CurrentRequester(c echo.Context) model.Requester {
	if r, ok := c.Get(keyRequester).(model.Requester); ok {
		return r
	}
	return model.GuestRequester()
}

// userID returns the authenticated user id or "guest".
func userID(c echo.Context) string {
	if s, ok := c.Get(keyUserID).(string); ok && s != "" {
		return s
	}
	return "guest"
}
