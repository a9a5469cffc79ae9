package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer appends every archive event to <dir>/chat.log as one line.
type Consumer struct {
	url string
	dir string
	log *zap.Logger

	mu sync.Mutex // serialises writes to the log file
}

func NewConsumer(url, dir string, log *zap.Logger) *Consumer {
	if dir == "" {
		dir = "logs"
	}
	return &Consumer{url: url, dir: dir, log: log}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff.  It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("event consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("event consumer: loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("event consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.Handle(d.Type, d.Body); err != nil {
			c.log.Error("event consumer: handle failed", zap.String("type", d.Type), zap.Error(err))
			_ = d.Nack(false, false) // do not requeue poison messages
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one event and appends its line to the log file.
func (c *Consumer) Handle(eventType string, body []byte) error {
	line, err := FormatEvent(eventType, body)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, "chat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatEvent renders an event as a single human-readable line.
func FormatEvent(eventType string, body []byte) (string, error) {
	switch eventType {
	case EventChatTurn:
		var ev ChatTurnEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", eventType, err)
		}
		user := ev.UserID
		if user == "" {
			user = "guest"
		}
		source := "remote"
		if ev.Fallback {
			source = "fallback"
		}
		line := fmt.Sprintf("[%s] Chat turn | session=%s | user=%s (%s) | clearance=%d | emotion=%s | source=%s",
			ev.At.UTC().Format(time.RFC3339), ev.SessionID, user, ev.UserName, ev.ClearanceLevel, ev.Emotion, source)
		if ev.FallbackReason != "" {
			line += fmt.Sprintf(" | reason=%q", ev.FallbackReason)
		}
		return line + "\n", nil
	case EventDossierModerated:
		var ev DossierModeratedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal %s: %w", eventType, err)
		}
		return fmt.Sprintf("[%s] Dossier moderated | dossier=%s | user=%s (%s) | status=%s | by=%s\n",
			ev.At.UTC().Format(time.RFC3339), ev.DossierID, ev.UserID, ev.Username, ev.Status, ev.ReviewedBy), nil
	default:
		return "", fmt.Errorf("unknown event type %q", eventType)
	}
}
