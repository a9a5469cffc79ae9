package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eternal-sentinels/es-archive/internal/middleware"
	"github.com/eternal-sentinels/es-archive/internal/service"
)

// ChatHandler exposes the MAL0 assistant.
type ChatHandler struct {
	Chat *service.ChatService
	Log  *zap.Logger
}

func NewChatHandler(chat *service.ChatService, log *zap.Logger) *ChatHandler {
	if chat == nil {
		panic("nil chat service passed to NewChatHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{Chat: chat, Log: log}
}

type chatReq struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResp struct {
	Response string `json:"response"`
	Emotion  string `json:"emotion"`
}

// Send answers one message.  The remote assistant may be bypassed; the
// caller is never told why.
func (h *ChatHandler) Send(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}

	reply, err := h.Chat.Reply(c.Request().Context(), middleware.CurrentRequester(c), req.SessionID, req.Message)
	if err != nil {
		h.Log.Error("chat turn", zap.String("session_id", req.SessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat failed"})
	}
	return c.JSON(http.StatusOK, chatResp{Response: reply.Text, Emotion: reply.Emotion.String()})
}

// History lists a session's turns oldest first.
func (h *ChatHandler) History(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	msgs, err := h.Chat.History(ctx, c.Param("session_id"))
	if err != nil {
		h.Log.Error("chat history", zap.String("session_id", c.Param("session_id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, msgs)
}
