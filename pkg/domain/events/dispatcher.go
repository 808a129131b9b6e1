package events

import (
	"context"
	"fmt"
	"sync"
)

// EventHandlerFunc is a function that handles a domain event.
type EventHandlerFunc func(ctx context.Context, event DomainEvent) error

// Dispatcher dispatches scheduling events to registered handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	// ContinueOnError determines if dispatch should continue when a
	// handler fails.
	ContinueOnError bool
}

// namedHandler wraps a handler with its name for debugging.
type namedHandler struct {
	name    string
	handler EventHandlerFunc
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]namedHandler),
	}
}

// RegisterHandler registers a handler for the given event types.
func (d *Dispatcher) RegisterHandler(name string, handler EventHandlerFunc, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	nh := namedHandler{name: name, handler: handler}
	for _, eventType := range eventTypes {
		d.handlers[eventType] = append(d.handlers[eventType], nh)
	}
}

// RegisterWildcard registers a handler for all events.
func (d *Dispatcher) RegisterWildcard(name string, handler EventHandlerFunc) {
	d.RegisterHandler(name, handler, "*")
}

// Dispatch sends an event to all handlers registered for its type plus
// wildcard handlers. With ContinueOnError false, dispatch stops at the
// first handler error; otherwise all handlers run and errors are joined.
func (d *Dispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	d.mu.RLock()
	handlers := make([]namedHandler, 0, 4)
	handlers = append(handlers, d.handlers[event.EventType()]...)
	handlers = append(handlers, d.handlers["*"]...)
	d.mu.RUnlock()

	var errs []error
	for _, nh := range handlers {
		if err := nh.handler(ctx, event); err != nil {
			wrapped := fmt.Errorf("handler %s: %w", nh.name, err)
			if !d.ContinueOnError {
				return wrapped
			}
			errs = append(errs, wrapped)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("dispatch %s: %d handler(s) failed, first: %w", event.EventType(), len(errs), errs[0])
	}
	return nil
}
