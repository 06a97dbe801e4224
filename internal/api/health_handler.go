package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	db         Pinger
	summarizer string
	timeout    time.Duration
}

// NewHealthHandler creates a HealthHandler. summarizer names the configured
// backend.
func NewHealthHandler(db Pinger, summarizer string) *HealthHandler {
	return &HealthHandler{db: db, summarizer: summarizer, timeout: 2 * time.Second}
}

// Health reports "ok" when the database answers and "degraded" otherwise.
// The status code is 200 in both cases.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Summarizer: h.summarizer, Database: "ok"}

	if h.db == nil {
		resp.Status, resp.Database = "degraded", "not configured"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("database health check failed", redact.Attr(err))
			resp.Status, resp.Database = "degraded", "unreachable"
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
