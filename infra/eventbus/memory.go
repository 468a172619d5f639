// Package eventbus provides the in-process event bus and the Redis-stream
// notifier that forwards compensation signals to an external consumer.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/minipay/minipay/pkg/domain/events"
	"github.com/minipay/minipay/pkg/eventbus"
)

// MemoryEventBus is a simple in-memory implementation of eventbus.Bus.
// Handlers run synchronously on the emitter's goroutine; handler errors are
// logged, never propagated.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	capture   bool
	published []events.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// CaptureEvents turns on recording of emitted events, retrievable through
// Published. Intended for tests; a capturing bus holds every event it ever
// saw, so the server never enables it.
func (b *MemoryEventBus) CaptureEvents() *MemoryEventBus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.capture = true
	return b
}

// Register adds a handler for the given event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all handlers registered for its type.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type()]
	b.mu.RUnlock()

	b.mu.Lock()
	if b.capture {
		b.published = append(b.published, event)
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed", "event_type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns every event emitted while capture is enabled.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]events.Event, len(b.published))
	copy(out, b.published)
	return out
}

// ClearPublished resets the record of emitted events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
