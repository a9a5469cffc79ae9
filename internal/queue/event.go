// Package queue defines the events exchanged over RabbitMQ and the consumer
// that records them.
package queue

import "time"

// QueueName is the durable queue carrying every archive event.  The event
// kind travels in the AMQP Type property.
const QueueName = "es.events"

// Event kinds.
const (
	EventChatTurn         = "chat.turn"
	EventDossierModerated = "dossier.moderated"
)

// ChatTurnEvent is published after an assistant turn is stored.  It carries
// metadata only; message text stays in the database.
type ChatTurnEvent struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id,omitempty"`
	UserName       string    `json:"user_name"`
	ClearanceLevel int       `json:"clearance_level"`
	Emotion        string    `json:"emotion"`
	Fallback       bool      `json:"fallback"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	At             time.Time `json:"at"`
}

// DossierModeratedEvent is published when an administrator approves or
// rejects a dossier.
type DossierModeratedEvent struct {
	DossierID  string    `json:"dossier_id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Status     string    `json:"status"`
	ReviewedBy string    `json:"reviewed_by"`
	At         time.Time `json:"at"`
}
