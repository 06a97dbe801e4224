// Package shared holds request-scoped helpers used by both the handlers and
// the middleware.
package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// ContextKey is the type of keys this package stores in a context.
type ContextKey string

const (
	// SessionContextKey holds the domain.Session of the request.
	SessionContextKey ContextKey = "session"

	// TraceIDKey holds the trace ID of the request.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16
)

var fallbackCounter atomic.Uint64

// SetTraceID returns a copy of ctx carrying a fresh trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace ID of ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// SessionFromContext returns the session of ctx. Requests that passed no
// authentication middleware are anonymous.
func SessionFromContext(ctx context.Context) domain.Session {
	if session, ok := ctx.Value(SessionContextKey).(domain.Session); ok {
		return session
	}
	return domain.AnonymousSession()
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		// Never hand out a constant ID.
		return strconv.FormatInt(time.Now().UnixNano(), 16) + "-" +
			strconv.FormatUint(fallbackCounter.Add(1), 16)
	}
	return hex.EncodeToString(b)
}
