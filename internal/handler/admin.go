package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eternal-sentinels/es-archive/internal/clearance"
	"github.com/eternal-sentinels/es-archive/internal/repository"
)

// AdminHandler manages accounts.  All routes require level 5.
type AdminHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Log    *zap.Logger
}

func NewAdminHandler(users *repository.UserRepo, tokens *repository.TokenRepo, log *zap.Logger) *AdminHandler {
	if users == nil || tokens == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{Users: users, Tokens: tokens, Log: log}
}

// ListUsers returns every account, oldest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, newUserView(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// SetClearance handles PUT /api/admin/users/:id/clearance?clearance_level=N.
func (h *AdminHandler) SetClearance(c echo.Context) error {
	level, err := strconv.Atoi(c.QueryParam("clearance_level"))
	if err != nil || !clearance.Valid(level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "clearance level must be between 1 and 5"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.SetClearance(ctx, c.Param("id"), level); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		h.Log.Error("set clearance", zap.String("user_id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Log.Info("clearance updated", zap.String("user_id", c.Param("id")), zap.Int("clearance_level", level))
	return c.JSON(http.StatusOK, echo.Map{"message": "Clearance level updated successfully"})
}

// SetStatus handles PUT /api/admin/users/:id/status?is_active=bool.
// Deactivation also revokes the user's refresh tokens.
func (h *AdminHandler) SetStatus(c echo.Context) error {
	active, err := strconv.ParseBool(c.QueryParam("is_active"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active must be true or false"})
	}
	id := c.Param("id")

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		h.Log.Error("set status", zap.String("user_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !active {
		if err := h.Tokens.RevokeAllForUser(ctx, id); err != nil {
			h.Log.Warn("revoke tokens of disabled user", zap.String("user_id", id), zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User status updated successfully"})
}
