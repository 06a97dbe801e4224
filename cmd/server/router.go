package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/notesy-api/internal/api"
	apiMiddleware "github.com/phrazzld/notesy-api/internal/api/middleware"
	"github.com/phrazzld/notesy-api/internal/platform/metrics"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/service/auth"
)

// routerDeps is everything the router needs to build handlers.
type routerDeps struct {
	logger         *slog.Logger
	jwtService     auth.JWTService
	study          service.StudyService
	todos          service.TodoService
	users          service.UserService
	metrics        *metrics.Metrics
	db             api.Pinger
	summarizerName string
	maxUploadBytes int64
}

func (app *application) routerDeps() routerDeps {
	deps := routerDeps{
		logger:         app.logger,
		jwtService:     app.jwtService,
		study:          app.studyService,
		todos:          app.todoService,
		users:          app.userService,
		metrics:        app.metrics,
		summarizerName: app.summarizerName,
		maxUploadBytes: app.config.Quota.MaxUploadBytes,
	}
	if app.db != nil {
		deps.db = app.db
	}
	return deps
}

// setupRouter creates the router with all routes and middleware.
func setupRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(deps.logger))
	r.Use(deps.metrics.Middleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.jwtService)
	studyHandler := api.NewStudyHandler(deps.study, deps.metrics, deps.maxUploadBytes, deps.logger)
	authHandler := api.NewAuthHandler(deps.users, deps.logger)
	todoHandler := api.NewTodoHandler(deps.todos, deps.logger)
	healthHandler := api.NewHealthHandler(deps.db, deps.summarizerName)

	r.With(authMiddleware.OptionalAuthenticate).Post("/summarize", studyHandler.Summarize)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.With(authMiddleware.Authenticate).Get("/auth/verify", authHandler.Verify)

		// Anonymous sessions reach these; the handlers apply the tier gates.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)

			r.Post("/text/analyze", studyHandler.Analyze)
			r.Post("/documents", studyHandler.UploadDocument)
			r.Post("/flashcards", studyHandler.GenerateFlashcards)
			r.Get("/deck", studyHandler.GetDeck)
			r.Post("/deck/{action}", studyHandler.DeckAction)

			r.Get("/todos", todoHandler.List)
			r.Post("/todos", todoHandler.Add)
			r.Delete("/todos/{id}", todoHandler.Remove)
		})
	})

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", deps.metrics.Handler())

	return r
}
