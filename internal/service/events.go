package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Events publishes in the background so a slow or absent broker never
// delays a response.
type Events struct {
	pub Publisher
	log *zap.Logger
	wg  sync.WaitGroup
}

func NewEvents(pub Publisher, log *zap.Logger) *Events {
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Events{pub: pub, log: log}
}

// Emit sends one event asynchronously.  Failures are logged and dropped.
func (e *Events) Emit(eventType string, payload any) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.pub.Publish(ctx, eventType, payload); err != nil {
			e.log.Warn("publish event", zap.String("type", eventType), zap.Error(err))
		}
	}()
}

// Close waits for in-flight publications.
func (e *Events) Close() {
	e.wg.Wait()
}
