package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eternal-sentinels/es-archive/internal/handler"
	"github.com/eternal-sentinels/es-archive/internal/middleware"
)

// RegisterChat registers the assistant endpoints.  Sending a message is rate
// limited per caller; history is public to anyone holding the session id.
func RegisterChat(e *echo.Echo, h *handler.ChatHandler, auth *middleware.Auth, limit echo.MiddlewareFunc) {
	e.POST("/api/chat", h.Send, auth.Optional(), limit)
	e.GET("/api/chat/history/:session_id", h.History)
}
