package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// MessageRepo stores conversation turns.  Turns are append-only.
type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

const messageColumns = "id, session_id, user_id, role, content, emotion, fallback, fallback_reason, created_at"

// Append stores m.  ID is assigned when empty and CreatedAt when zero.
func (r *MessageRepo) Append(ctx context.Context, m *model.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}
	m.CreatedAt = m.CreatedAt.UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chat_messages ("+messageColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		m.ID, m.SessionID, m.UserID, m.Role, m.Content, m.Emotion, m.Fallback, m.FallbackReason, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListBySession returns the turns of a session ordered by CreatedAt.  A
// positive limit keeps only the most recent turns, still oldest first.
func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.Message, error) {
	q := "SELECT " + messageColumns + " FROM chat_messages WHERE session_id = ? ORDER BY created_at, id"
	args := []any{sessionID}
	if limit > 0 {
		q = "SELECT " + messageColumns + " FROM (SELECT " + messageColumns +
			" FROM chat_messages WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT ?) recent ORDER BY created_at, id"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		var userID, emo, reason sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &userID, &m.Role, &m.Content, &emo, &m.Fallback, &reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.UserID = nullString(userID)
		m.Emotion = nullString(emo)
		m.FallbackReason = nullString(reason)
		out = append(out, m)
	}
	return out, rows.Err()
}
