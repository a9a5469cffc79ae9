package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eternal-sentinels/es-archive/internal/assistant"
	"github.com/eternal-sentinels/es-archive/internal/config"
	"github.com/eternal-sentinels/es-archive/internal/emotion"
	"github.com/eternal-sentinels/es-archive/internal/fallback"
	"github.com/eternal-sentinels/es-archive/internal/metrics"
	"github.com/eternal-sentinels/es-archive/internal/model"
	"github.com/eternal-sentinels/es-archive/internal/queue"
)

// conversationWindow bounds the history read for a turn.
const conversationWindow = 50

// Fallback reasons stored on assistant turns.  They are logged and never
// returned to the caller.
const (
	ReasonNoAPIKey = "No API key"
	ReasonQuota    = "API rate limit or insufficient credits"
)

// MessageStore is the persistence the orchestrator needs.
type MessageStore interface {
	Append(ctx context.Context, m *model.Message) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]model.Message, error)
}

// ChatReply is the answer to one chat turn.
type ChatReply struct {
	Text    string
	Emotion emotion.Label
}

// ChatService runs one conversational turn: store the user's message, ask
// the remote assistant, fall back to the scripted engine on any failure,
// store the reply.
type ChatService struct {
	messages     MessageStore
	client       assistant.Client // nil means no key is configured
	selector     *fallback.Selector
	events       *Events
	metrics      *metrics.Metrics
	log          *zap.Logger
	timeout      time.Duration
	historyLimit int
	now          func() time.Time
}

// ChatDeps groups the collaborators of NewChatService.  Client may be nil;
// the others get defaults when nil.
type ChatDeps struct {
	Messages MessageStore
	Client   assistant.Client
	Selector *fallback.Selector
	Events   *Events
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewChatService(deps ChatDeps, cfg config.LLMConfig) *ChatService {
	s := &ChatService{
		messages:     deps.Messages,
		client:       deps.Client,
		selector:     deps.Selector,
		events:       deps.Events,
		metrics:      deps.Metrics,
		log:          deps.Log,
		timeout:      cfg.Timeout,
		historyLimit: cfg.HistoryLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
	if s.selector == nil {
		s.selector = fallback.New(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.events == nil {
		s.events = NewEvents(NopPublisher{}, s.log)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.timeout <= 0 {
		s.timeout = 20 * time.Second
	}
	return s
}

// Reply answers text for requester r within the given session.  It fails
// only when the user's turn cannot be stored; every other failure degrades
// to the fallback engine.
func (s *ChatService) Reply(ctx context.Context, r model.Requester, sessionID, text string) (ChatReply, error) {
	var uid *string
	if !r.IsGuest() {
		id := r.UserID
		uid = &id
	}

	userTurn := &model.Message{
		SessionID: sessionID,
		UserID:    uid,
		Role:      model.RoleUser,
		Content:   text,
		CreatedAt: s.now(),
	}
	// A client hanging up mid-turn still leaves both turns stored.
	storeCtx := context.WithoutCancel(ctx)
	if err := s.messages.Append(storeCtx, userTurn); err != nil {
		return ChatReply{}, fmt.Errorf("store user turn: %w", err)
	}

	history, err := s.messages.ListBySession(storeCtx, sessionID, conversationWindow)
	if err != nil {
		s.log.Warn("chat history unavailable", zap.String("session_id", sessionID), zap.Error(err))
		history = []model.Message{*userTurn}
	}

	reply, reason := s.remote(ctx, r, history, text)
	if reason != "" {
		s.log.Warn("chat fallback",
			zap.String("session_id", sessionID),
			zap.String("reason", reason))
		fb := s.selector.Select(fallback.Request{
			Message:            text,
			UserName:           r.DisplayName,
			ClearanceLevel:     r.ClearanceLevel,
			Privileged:         r.Privileged,
			ConversationLength: len(history),
		})
		reply = ChatReply{Text: fb.Text, Emotion: fb.Emotion}
		s.metrics.ChatReplies.WithLabelValues(metrics.SourceFallback).Inc()
		s.metrics.FallbackReason.WithLabelValues(reasonCause(reason)).Inc()
	} else {
		s.metrics.ChatReplies.WithLabelValues(metrics.SourceRemote).Inc()
	}

	emo := reply.Emotion.String()
	at := s.now()
	if !at.After(userTurn.CreatedAt) {
		at = userTurn.CreatedAt.Add(time.Microsecond)
	}
	assistantTurn := &model.Message{
		SessionID: sessionID,
		UserID:    uid,
		Role:      model.RoleAssistant,
		Content:   reply.Text,
		Emotion:   &emo,
		Fallback:  reason != "",
		CreatedAt: at,
	}
	if reason != "" {
		assistantTurn.FallbackReason = &reason
	}
	if err := s.messages.Append(storeCtx, assistantTurn); err != nil {
		s.log.Error("store assistant turn", zap.String("session_id", sessionID), zap.Error(err))
	}

	s.events.Emit(queue.EventChatTurn, queue.ChatTurnEvent{
		SessionID:      sessionID,
		UserID:         r.UserID,
		UserName:       r.DisplayName,
		ClearanceLevel: r.ClearanceLevel,
		Emotion:        emo,
		Fallback:       reason != "",
		FallbackReason: reason,
		At:             at,
	})
	return reply, nil
}

// remote asks the assistant.  A non-empty reason means the caller must use
// the fallback engine.
func (s *ChatService) remote(ctx context.Context, r model.Requester, history []model.Message, text string) (reply ChatReply, reason string) {
	if s.client == nil {
		return ChatReply{}, ReasonNoAPIKey
	}
	defer func() {
		if p := recover(); p != nil {
			reply, reason = ChatReply{}, truncate(fmt.Sprintf("Unexpected error: %v", p), 100)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.client.Reply(callCtx, assistant.Request{
		System:  assistant.SystemPrompt(r),
		History: s.turns(history),
		Prompt:  text,
	})
	if err != nil {
		if assistant.IsQuotaError(err) {
			return ChatReply{}, ReasonQuota
		}
		return ChatReply{}, "API error: " + truncate(err.Error(), 100)
	}
	return ChatReply{Text: out, Emotion: emotion.Classify(out)}, ""
}

// turns converts stored history into assistant turns, dropping the message
// being answered (the last entry) and keeping at most historyLimit turns.
func (s *ChatService) turns(history []model.Message) []assistant.Turn {
	if n := len(history); n > 0 && history[n-1].Role == model.RoleUser {
		history = history[:n-1]
	}
	if s.historyLimit >= 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}
	out := make([]assistant.Turn, 0, len(history))
	for _, m := range history {
		out = append(out, assistant.Turn{Role: m.Role, Content: m.Content})
	}
	return out
}

// History returns every turn of a session in order.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]model.Message, error) {
	return s.messages.ListBySession(ctx, sessionID, 0)
}

func reasonCause(reason string) string {
	switch {
	case reason == ReasonNoAPIKey:
		return "no_api_key"
	case reason == ReasonQuota:
		return "quota"
	case strings.HasPrefix(reason, "Unexpected"):
		return "unexpected"
	default:
		return "api_error"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
