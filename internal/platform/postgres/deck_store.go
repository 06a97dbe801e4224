package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/store"
)

// PostgresDeckStore implements store.DeckStore on PostgreSQL. Cards are kept
// as a JSONB array on the user's single deck row.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// NewPostgresDeckStore creates a deck store.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{db: db, logger: logger.With(slog.String("component", "deck_store"))}
}

// WithTx implements store.DeckStore.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Replace implements store.DeckStore. The upsert only overwrites a stored
// row whose generation is older, so a slow generation can never clobber a
// newer one.
func (s *PostgresDeckStore) Replace(ctx context.Context, deck *domain.StoredDeck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	if deck.UpdatedAt.IsZero() {
		deck.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (user_id, cards, current_index, is_flipped, generation, updated_at)
		VALUES ($1, $2, 0, FALSE, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET cards = EXCLUDED.cards,
		    current_index = 0,
		    is_flipped = FALSE,
		    generation = EXCLUDED.generation,
		    updated_at = EXCLUDED.updated_at
		WHERE decks.generation < EXCLUDED.generation
	`, deck.UserID, string(cards), deck.Generation, deck.UpdatedAt)
	if err != nil {
		return store.NewStoreError("deck", "replace", "upsert failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrStaleGeneration); err != nil {
		if errors.Is(err, store.ErrStaleGeneration) {
			return err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to confirm deck upsert",
			slog.String("user_id", deck.UserID.String()),
			redact.Attr(err))
		return store.NewStoreError("deck", "replace", "rows affected check failed", err)
	}

	deck.CurrentIndex = 0
	deck.IsFlipped = false
	return nil
}

// Get implements store.DeckStore.
func (s *PostgresDeckStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StoredDeck, error) {
	return s.get(ctx, userID, false)
}

// GetForUpdate implements store.DeckStore.
func (s *PostgresDeckStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.StoredDeck, error) {
	return s.get(ctx, userID, true)
}

func (s *PostgresDeckStore) get(ctx context.Context, userID uuid.UUID, lock bool) (*domain.StoredDeck, error) {
	query := `
		SELECT user_id, cards, current_index, is_flipped, generation, updated_at
		FROM decks
		WHERE user_id = $1
	`
	if lock {
		query += " FOR UPDATE"
	}

	var (
		deck  domain.StoredDeck
		cards []byte
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&deck.UserID,
		&cards,
		&deck.CurrentIndex,
		&deck.IsFlipped,
		&deck.Generation,
		&deck.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrDeckNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("deck", "get", "query failed", MapError(err))
	}

	if err := json.Unmarshal(cards, &deck.Cards); err != nil {
		return nil, store.NewStoreError("deck", "get", "decode cards", err)
	}
	return &deck, nil
}

// UpdateCursor implements store.DeckStore.
func (s *PostgresDeckStore) UpdateCursor(ctx context.Context, userID uuid.UUID, index int, flipped bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE decks
		SET current_index = $2, is_flipped = $3, updated_at = $4
		WHERE user_id = $1
	`, userID, index, flipped, time.Now().UTC())
	if err != nil {
		return store.NewStoreError("deck", "update_cursor", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}
