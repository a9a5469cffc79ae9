package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// userView is the public shape of an account.  The password hash and the
// admin flag never leave the server.
type userView struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	ClearanceLevel int       `json:"clearance_level"`
	CreatedAt      time.Time `json:"created_at"`
	IsActive       bool      `json:"is_active"`
}

func newUserView(u *model.User) userView {
	return userView{
		ID:             u.ID,
		Username:       u.Username,
		ClearanceLevel: u.ClearanceLevel,
		CreatedAt:      u.CreatedAt,
		IsActive:       u.IsActive,
	}
}
