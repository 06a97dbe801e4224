package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/notesy-api/internal/config"
	"github.com/phrazzld/notesy-api/internal/events"
	"github.com/phrazzld/notesy-api/internal/extract"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/platform/metrics"
	"github.com/phrazzld/notesy-api/internal/platform/postgres"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/service/auth"
	"github.com/phrazzld/notesy-api/internal/store"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

const (
	backendGemini     = "gemini"
	backendExtractive = "extractive"
)

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	todoStore store.TodoStore
	deckStore store.DeckStore

	jwtService     auth.JWTService
	summarizer     summarize.Summarizer
	summarizerName string

	studyService service.StudyService
	todoService  service.TodoService
	userService  service.UserService

	sessions *events.SessionEmitter
	metrics  *metrics.Metrics

	unsubscribe []func()
}

// newApplication wires stores, services and the summarization backend.
// db may be nil in tests that only exercise routing; persistence-backed
// services are then left unset.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.sessions = events.NewSessionEmitter(logger)
	app.unsubscribe = append(app.unsubscribe, app.sessions.Subscribe(app.metrics))

	app.summarizer, app.summarizerName, err = buildSummarizer(ctx, cfg.Summarizer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
	}
	logger.Info("summarizer initialized", "backend", app.summarizerName)

	if db == nil {
		return app, nil
	}

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.todoStore = postgres.NewPostgresTodoStore(db, logger)
	app.deckStore = postgres.NewPostgresDeckStore(db, logger)

	limits := ingest.Limits{
		Anonymous:     cfg.Quota.AnonymousWordLimit,
		Authenticated: cfg.Quota.AuthenticatedWordLimit,
	}
	ingester := ingest.NewIngester(
		extract.NewDocxExtractor(extract.DefaultMaxDocumentBytes),
		limits,
		cfg.Quota.MaxUploadBytes,
	)

	app.studyService, err = service.NewStudyService(
		app.deckStore, db, ingester, app.summarizer, limits, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	app.todoService, err = service.NewTodoService(app.todoStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo service: %w", err)
	}

	app.userService, err = service.NewUserService(
		app.userStore, app.jwtService, auth.NewBcryptVerifier(), app.sessions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	return app, nil
}

// buildSummarizer selects the backend named in cfg. Gemini falls back to the
// extractive summarizer; either is wrapped in an LRU cache when CacheSize > 0.
func buildSummarizer(
	ctx context.Context,
	cfg config.SummarizerConfig,
	logger *slog.Logger,
) (summarize.Summarizer, string, error) {
	var (
		backend summarize.Summarizer
		name    string
	)

	switch cfg.Backend {
	case backendGemini:
		gemini, err := summarize.NewGemini(ctx, logger, summarize.GeminiConfig{
			APIKey:            cfg.GeminiAPIKey,
			ModelName:         cfg.ModelName,
			MaxRetries:        cfg.MaxRetries,
			RetryDelaySeconds: cfg.RetryDelaySeconds,
		})
		if err != nil {
			return nil, "", err
		}
		backend = summarize.NewChain(logger, gemini, summarize.Extractive{})
		name = backendGemini + ":" + cfg.ModelName
	case backendExtractive, "":
		backend = summarize.Extractive{}
		name = backendExtractive
	default:
		return nil, "", fmt.Errorf("%w: unknown backend %q", summarize.ErrInvalidConfig, cfg.Backend)
	}

	if cfg.CacheSize <= 0 {
		return backend, name, nil
	}
	cached, err := summarize.NewCached(backend, cfg.CacheSize)
	if err != nil {
		return nil, "", err
	}
	return cached, name, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	for _, unsubscribe := range app.unsubscribe {
		unsubscribe()
	}
	if app.db == nil {
		return
	}
	app.logger.Info("closing database connection")
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database connection", redact.Attr(err))
	}
}
