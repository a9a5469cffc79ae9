package middleware // reusable HTTP middleware for the archive API

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/model"
	"github.com/eternal-sentinels/es-archive/internal/utils"
)

// UserLoader fetches the account behind a token subject.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Auth resolves the caller from a Bearer access token.  The account is
// re-read on every request so clearance changes and deactivation take effect
// immediately.
type Auth struct {
	secret    string
	users     UserLoader
	adminName string
}

// NewAuth builds the resolver.  adminName is the reserved administrative
// username; together with level 5 it marks the privileged requester.
func NewAuth(secret string, users UserLoader, adminName string) *Auth {
	return &Auth{secret: secret, users: users, adminName: adminName}
}

// Optional lets anonymous callers through as the guest requester.  A
// missing, invalid or expired token, an unknown subject and a disabled
// account are all treated as anonymous.
func (a *Auth) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u := a.resolve(c); u != nil {
				a.bind(c, u)
			}
			return next(c)
		}
	}
}

// Required rejects anonymous callers with 401.
func (a *Auth) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := a.resolve(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			a.bind(c, u)
			return next(c)
		}
	}
}

func (a *Auth) resolve(c echo.Context) *model.User {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	sub, err := utils.ParseAccessToken(a.secret, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := a.users.GetByID(ctx, sub)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.Logger().Debugf("auth: load user %s: %v", sub, err)
		}
		return nil
	}
	if !u.IsActive {
		return nil
	}
	return u
}

func (a *Auth) bind(c echo.Context, u *model.User) {
	c.Set(keyUser, u)
	c.Set(keyUserID, u.ID)
	c.Set(keyRequester, model.Requester{
		UserID:         u.ID,
		DisplayName:    u.Username,
		ClearanceLevel: u.ClearanceLevel,
		Privileged:     IsPrivileged(u, a.adminName),
	})
}

// IsPrivileged reports whether u is the administrative identity: the
// reserved username (case-insensitive) holding level 5.
func IsPrivileged(u *model.User, adminName string) bool {
	return u != nil && u.ClearanceLevel == 5 && strings.EqualFold(u.Username, adminName)
}
