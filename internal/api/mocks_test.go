package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

type mockStudyService struct {
	AnalyzeFn        func(session domain.Session, text string) service.Analysis
	IngestDocumentFn func(ctx context.Context, session domain.Session, upload ingest.Upload) (service.Analysis, error)
	SummarizeFn      func(ctx context.Context, session domain.Session, text string) (ingest.NormalizedText, summarize.Result, error)
	GenerateDeckFn   func(ctx context.Context, session domain.Session, text string) (service.DeckState, error)
	CurrentDeckFn    func(ctx context.Context, session domain.Session) (service.DeckState, error)
	NavigateFn       func(ctx context.Context, session domain.Session, action flashcard.Action) (service.DeckState, error)
}

func (m *mockStudyService) Analyze(session domain.Session, text string) service.Analysis {
	return m.AnalyzeFn(session, text)
}

func (m *mockStudyService) IngestDocument(ctx context.Context, session domain.Session, upload ingest.Upload) (service.Analysis, error) {
	return m.IngestDocumentFn(ctx, session, upload)
}

func (m *mockStudyService) Summarize(ctx context.Context, session domain.Session, text string) (ingest.NormalizedText, summarize.Result, error) {
	return m.SummarizeFn(ctx, session, text)
}

func (m *mockStudyService) GenerateDeck(ctx context.Context, session domain.Session, text string) (service.DeckState, error) {
	return m.GenerateDeckFn(ctx, session, text)
}

func (m *mockStudyService) CurrentDeck(ctx context.Context, session domain.Session) (service.DeckState, error) {
	return m.CurrentDeckFn(ctx, session)
}

func (m *mockStudyService) Navigate(ctx context.Context, session domain.Session, action flashcard.Action) (service.DeckState, error) {
	return m.NavigateFn(ctx, session, action)
}

type mockTodoService struct {
	ListFn   func(ctx context.Context, session domain.Session) ([]domain.Todo, error)
	AddFn    func(ctx context.Context, session domain.Session, text string) (*domain.Todo, error)
	RemoveFn func(ctx context.Context, session domain.Session, id uuid.UUID) error
}

func (m *mockTodoService) List(ctx context.Context, session domain.Session) ([]domain.Todo, error) {
	return m.ListFn(ctx, session)
}

func (m *mockTodoService) Add(ctx context.Context, session domain.Session, text string) (*domain.Todo, error) {
	return m.AddFn(ctx, session, text)
}

func (m *mockTodoService) Remove(ctx context.Context, session domain.Session, id uuid.UUID) error {
	return m.RemoveFn(ctx, session, id)
}

type mockUserService struct {
	RegisterFn func(ctx context.Context, username, email, password string) (*service.AuthResult, error)
	LoginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetUserFn  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *mockUserService) Register(ctx context.Context, username, email, password string) (*service.AuthResult, error) {
	return m.RegisterFn(ctx, username, email, password)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return m.LoginFn(ctx, email, password)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.GetUserFn(ctx, userID)
}

type countingRecorder struct {
	summaries  []string
	decks      int
	rejections []string
}

func (c *countingRecorder) SummaryProduced(model string) { c.summaries = append(c.summaries, model) }
func (c *countingRecorder) DeckGenerated()               { c.decks++ }
func (c *countingRecorder) Rejected(reason string)       { c.rejections = append(c.rejections, reason) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withSession installs session on every request, standing in for the auth
// middleware.
func withSession(session domain.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithSession(r.Context(), session)))
		})
	}
}
