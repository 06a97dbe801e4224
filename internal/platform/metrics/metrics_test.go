package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/events"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	t.Parallel()

	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Delete("/api/todos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for range 2 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/todos/"+uuid.NewString(), nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("DELETE", "/api/todos/{id}", "204")))
}

func TestDomainCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.SummaryProduced("fallback")
	m.SummaryProduced("fallback")
	m.DeckGenerated()
	m.Rejected("quota")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.summaries.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("quota")))
}

func TestSessionEventsAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	emitter := events.NewSessionEmitter(nil)
	emitter.Subscribe(m)

	require.NoError(t, emitter.Emit(context.Background(), events.NewLoginEvent(domain.AuthenticatedSession(uuid.New(), "a"), "t")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionEvents.WithLabelValues("login")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "notesy_session_events_total"))
}
