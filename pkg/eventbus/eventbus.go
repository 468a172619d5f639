// Package eventbus defines the contract for publishing domain events.
package eventbus

import (
	"context"

	"github.com/minipay/minipay/pkg/domain/events"
)

// HandlerFunc handles a single event. Errors are logged by the bus, not
// propagated to the emitter; delivery is fire-and-forget from the emitter's
// point of view.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus publishes domain events to registered handlers.
type Bus interface {
	// Emit dispatches the event to every handler registered for its type.
	Emit(ctx context.Context, e events.Event) error
	// Register adds a handler for the given event type.
	Register(eventType string, h HandlerFunc)
}
