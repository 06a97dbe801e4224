package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/store"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

// Analysis describes a piece of input text as the session sees it.
type Analysis struct {
	Text                  ingest.NormalizedText
	State                 ingest.DraftState
	WordLimit             int
	Message               string
	CanUpload             bool
	CanGenerateFlashcards bool
}

// DeckState is a deck together with its cursor. Demo decks are never
// persisted.
type DeckState struct {
	Deck       flashcard.Deck
	Index      int
	Flipped    bool
	Generation int64
	Demo       bool
}

// Navigator rebuilds a navigator positioned at the stored cursor.
func (s DeckState) Navigator() *flashcard.Navigator {
	return flashcard.Restore(s.Deck, s.Index, s.Flipped)
}

// StudyService runs the ingestion, summarization and flashcard pipeline.
type StudyService interface {
	// Analyze normalizes text and reports its state under the session's quota.
	Analyze(session domain.Session, text string) Analysis

	// IngestDocument gates, extracts and quota-checks an uploaded document.
	IngestDocument(ctx context.Context, session domain.Session, upload ingest.Upload) (Analysis, error)

	// Summarize quota-checks text and summarizes it.
	Summarize(ctx context.Context, session domain.Session, text string) (ingest.NormalizedText, summarize.Result, error)

	// GenerateDeck synthesizes a deck from text and stores it as the
	// user's current deck.
	GenerateDeck(ctx context.Context, session domain.Session, text string) (DeckState, error)

	// CurrentDeck returns the user's stored deck, or the demo deck for
	// anonymous sessions and users without one.
	CurrentDeck(ctx context.Context, session domain.Session) (DeckState, error)

	// Navigate applies a deck action to the stored cursor.
	Navigate(ctx context.Context, session domain.Session, action flashcard.Action) (DeckState, error)
}

// txRunner runs fn in a transaction.
type txRunner func(ctx context.Context, fn store.TxFn) error

type studyService struct {
	decks      store.DeckStore
	ingester   *ingest.Ingester
	summarizer summarize.Summarizer
	limits     ingest.Limits
	sequencer  *Sequencer
	inFlight   *inFlight
	runInTx    txRunner
	now        func() time.Time
	logger     *slog.Logger
}

var _ StudyService = (*studyService)(nil)

// NewStudyService creates a StudyService.
func NewStudyService(
	decks store.DeckStore,
	db *sql.DB,
	ingester *ingest.Ingester,
	summarizer summarize.Summarizer,
	limits ingest.Limits,
	logger *slog.Logger,
) (StudyService, error) {
	if decks == nil {
		return nil, fmt.Errorf("deck store cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	runInTx := func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
	return newStudyService(decks, runInTx, ingester, summarizer, limits, logger)
}

func newStudyService(
	decks store.DeckStore,
	runInTx txRunner,
	ingester *ingest.Ingester,
	summarizer summarize.Summarizer,
	limits ingest.Limits,
	logger *slog.Logger,
) (*studyService, error) {
	if ingester == nil {
		return nil, fmt.Errorf("ingester cannot be nil")
	}
	if summarizer == nil {
		return nil, fmt.Errorf("summarizer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &studyService{
		decks:      decks,
		ingester:   ingester,
		summarizer: summarizer,
		limits:     limits,
		sequencer:  NewSequencer(),
		inFlight:   newInFlight(),
		runInTx:    runInTx,
		now:        time.Now,
		logger:     logger.With("component", "study_service"),
	}, nil
}

func (s *studyService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *studyService) analysis(session domain.Session, text ingest.NormalizedText) Analysis {
	policy := s.limits.PolicyFor(session)
	draft := ingest.NewDraft(policy)
	draft.SetText(text.Raw)
	return Analysis{
		Text:                  draft.Text(),
		State:                 draft.State(),
		WordLimit:             policy.WordLimit,
		Message:               draft.Message(),
		CanUpload:             session.CanUpload(),
		CanGenerateFlashcards: session.CanGenerateFlashcards(),
	}
}

// Analyze implements StudyService.
func (s *studyService) Analyze(session domain.Session, text string) Analysis {
	return s.analysis(session, ingest.Normalize(text))
}

// IngestDocument implements StudyService.
func (s *studyService) IngestDocument(
	ctx context.Context,
	session domain.Session,
	upload ingest.Upload,
) (Analysis, error) {
	log := s.log(ctx)

	text, err := s.ingester.Ingest(ctx, session, upload)
	if err != nil {
		log.Debug("document rejected",
			"file_name", upload.Name,
			"size", upload.Size,
			"tier", session.Tier.String(),
			redact.Attr(err))
		return Analysis{}, err
	}

	log.Info("document ingested",
		"file_name", upload.Name,
		"word_count", text.WordCount)
	return s.analysis(session, text), nil
}

// Summarize implements StudyService.
func (s *studyService) Summarize(
	ctx context.Context,
	session domain.Session,
	text string,
) (ingest.NormalizedText, summarize.Result, error) {
	draft := ingest.NewDraft(s.limits.PolicyFor(session))
	draft.SetText(text)
	normalized, err := draft.Promote()
	if err != nil {
		return draft.Text(), summarize.Result{}, err
	}

	result, err := s.summarizer.Summarize(ctx, normalized.Raw)
	if err != nil {
		s.log(ctx).Error("summarization failed",
			"word_count", normalized.WordCount,
			redact.Attr(err))
		return normalized, summarize.Result{}, fmt.Errorf("failed to summarize text: %w", err)
	}
	return normalized, result, nil
}

// GenerateDeck implements StudyService.
func (s *studyService) GenerateDeck(
	ctx context.Context,
	session domain.Session,
	text string,
) (DeckState, error) {
	log := s.log(ctx)

	if !session.CanGenerateFlashcards() {
		return DeckState{}, ingest.ErrFlashcardsGated
	}

	draft := ingest.NewDraft(s.limits.PolicyFor(session))
	draft.SetText(text)
	normalized, err := draft.Promote()
	if err != nil {
		return DeckState{}, err
	}

	release, ok := s.inFlight.acquire(session.Identity)
	if !ok {
		log.Warn("rejected concurrent deck generation", "user_id", session.Identity)
		return DeckState{}, ErrRequestInFlight
	}
	defer release()

	generation := s.sequencer.Next()
	deck := flashcard.Generate(normalized.Raw)

	stored := &domain.StoredDeck{
		UserID:     session.Identity,
		Cards:      deck.Cards(),
		Generation: generation,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.decks.Replace(ctx, stored); err != nil {
		if errors.Is(err, store.ErrStaleGeneration) {
			log.Info("discarded stale deck",
				"user_id", session.Identity,
				"generation", generation)
			return DeckState{}, err
		}
		log.Error("failed to store deck",
			"user_id", session.Identity,
			redact.Attr(err))
		return DeckState{}, fmt.Errorf("failed to store deck: %w", err)
	}

	log.Info("generated flashcard deck",
		"user_id", session.Identity,
		"cards", deck.Len(),
		"word_count", normalized.WordCount,
		"generation", generation)

	return DeckState{Deck: deck, Generation: generation}, nil
}

// CurrentDeck implements StudyService.
func (s *studyService) CurrentDeck(ctx context.Context, session domain.Session) (DeckState, error) {
	if !session.IsAuthenticated() {
		return demoState(), nil
	}

	stored, err := s.decks.Get(ctx, session.Identity)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return demoState(), nil
		}
		s.log(ctx).Error("failed to load deck",
			"user_id", session.Identity,
			redact.Attr(err))
		return DeckState{}, fmt.Errorf("failed to load deck: %w", err)
	}
	return stateOf(stored), nil
}

// Navigate implements StudyService.
func (s *studyService) Navigate(
	ctx context.Context,
	session domain.Session,
	action flashcard.Action,
) (DeckState, error) {
	if !action.Valid() {
		return DeckState{}, fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}
	if !session.CanGenerateFlashcards() {
		return DeckState{}, ingest.ErrFlashcardsGated
	}

	var result DeckState
	err := s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		decks := s.decks.WithTx(tx)

		stored, err := decks.GetForUpdate(ctx, session.Identity)
		if err != nil {
			return err
		}

		nav := flashcard.Restore(flashcard.NewDeck(stored.Cards), stored.CurrentIndex, stored.IsFlipped)
		nav.Apply(action)

		if err := decks.UpdateCursor(ctx, session.Identity, nav.Index(), nav.Flipped()); err != nil {
			return err
		}

		result = DeckState{
			Deck:       nav.Deck(),
			Index:      nav.Index(),
			Flipped:    nav.Flipped(),
			Generation: stored.Generation,
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrDeckNotFound) {
			s.log(ctx).Error("failed to navigate deck",
				"user_id", session.Identity,
				"action", string(action),
				redact.Attr(err))
		}
		return DeckState{}, fmt.Errorf("failed to navigate deck: %w", err)
	}
	return result, nil
}

func demoState() DeckState {
	return DeckState{Deck: flashcard.DemoDeck(), Demo: true}
}

func stateOf(stored *domain.StoredDeck) DeckState {
	nav := flashcard.Restore(flashcard.NewDeck(stored.Cards), stored.CurrentIndex, stored.IsFlipped)
	return DeckState{
		Deck:       nav.Deck(),
		Index:      nav.Index(),
		Flipped:    nav.Flipped(),
		Generation: stored.Generation,
	}
}
