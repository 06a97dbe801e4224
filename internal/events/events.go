package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// SessionEventType distinguishes login from logout.
type SessionEventType string

const (
	SessionLogin  SessionEventType = "login"
	SessionLogout SessionEventType = "logout"
)

// SessionEvent announces that the active session changed. Token is the
// bearer token of the new session and is empty after logout.
type SessionEvent struct {
	ID        uuid.UUID
	Type      SessionEventType
	Session   domain.Session
	Token     string
	CreatedAt time.Time
}

// NewLoginEvent creates an event for a freshly authenticated session.
func NewLoginEvent(session domain.Session, token string) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.New(),
		Type:      SessionLogin,
		Session:   session,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
}

// NewLogoutEvent creates an event that returns to an anonymous session.
func NewLogoutEvent() *SessionEvent {
	return &SessionEvent{
		ID:        uuid.New(),
		Type:      SessionLogout,
		Session:   domain.AnonymousSession(),
		CreatedAt: time.Now().UTC(),
	}
}

// SessionHandler reacts to session changes.
type SessionHandler interface {
	HandleSessionEvent(ctx context.Context, event *SessionEvent) error
}

// SessionHandlerFunc adapts a function to SessionHandler.
type SessionHandlerFunc func(ctx context.Context, event *SessionEvent) error

// HandleSessionEvent implements SessionHandler.
func (f SessionHandlerFunc) HandleSessionEvent(ctx context.Context, event *SessionEvent) error {
	return f(ctx, event)
}
