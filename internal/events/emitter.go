package events

import (
	"context"
	"log/slog"
	"sync"
)

// SessionEmitter dispatches session events to subscribed handlers in
// subscription order.
type SessionEmitter struct {
	mu       sync.RWMutex
	handlers map[int]SessionHandler
	order    []int
	nextID   int
	logger   *slog.Logger
}

// NewSessionEmitter creates an emitter with no subscribers.
func NewSessionEmitter(logger *slog.Logger) *SessionEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionEmitter{
		handlers: make(map[int]SessionHandler),
		logger:   logger.With("component", "session_emitter"),
	}
}

// Subscribe registers handler and returns a function that removes it.
func (e *SessionEmitter) Subscribe(handler SessionHandler) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.handlers[id] = handler
	e.order = append(e.order, id)
	e.logger.Debug("registered session handler", "handler_count", len(e.handlers))

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.handlers[id]; !ok {
			return
		}
		delete(e.handlers, id)
		for i, v := range e.order {
			if v == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers event to every handler. All handlers run even if one
// fails; the first error is returned.
func (e *SessionEmitter) Emit(ctx context.Context, event *SessionEvent) error {
	e.mu.RLock()
	handlers := make([]SessionHandler, 0, len(e.order))
	for _, id := range e.order {
		handlers = append(handlers, e.handlers[id])
	}
	e.mu.RUnlock()

	e.logger.Debug("emitting session event",
		"event_id", event.ID,
		"event_type", event.Type,
		"tier", event.Session.Tier.String(),
		"handler_count", len(handlers))

	var firstErr error
	for i, h := range handlers {
		if err := h.HandleSessionEvent(ctx, event); err != nil {
			e.logger.Error("session handler failed",
				"error", err,
				"handler_index", i,
				"event_id", event.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
