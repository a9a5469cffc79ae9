package model

import "time"

// Roles of a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn in the `chat_messages` table.  Turns are
// append-only and a session is always presented ordered by CreatedAt.
//
// Fields:
//  ID             – uuid primary key.
//  SessionID      – client-chosen conversation identifier.
//  UserID         – author account; nil for guests.
//  Role           – RoleUser or RoleAssistant.
//  Content        – text of the turn.
//  Emotion        – presentation label (assistant turns only).
//  Fallback       – true when produced by the local scripted engine.
//  FallbackReason – why the remote assistant was bypassed (never shown to callers).
//  CreatedAt      – ordering timestamp.
type Message struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	UserID         *string   `json:"user_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Emotion        *string   `json:"emotion,omitempty"`
	Fallback       bool      `json:"fallback_mode"`
	FallbackReason *string   `json:"-"`
	CreatedAt      time.Time `json:"timestamp"`
}
