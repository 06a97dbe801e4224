package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// DeckStore persists one study deck per user.
type DeckStore interface {
	// Replace stores a freshly generated deck only if its generation is newer
	// than the stored one; otherwise it returns ErrStaleGeneration.
	Replace(ctx context.Context, deck *domain.StoredDeck) error

	// Get returns ErrDeckNotFound if the user has no deck.
	Get(ctx context.Context, userID uuid.UUID) (*domain.StoredDeck, error)

	// GetForUpdate is Get with a row lock; it must run inside a transaction.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.StoredDeck, error)

	// UpdateCursor writes the cursor of an existing deck.
	UpdateCursor(ctx context.Context, userID uuid.UUID, index int, flipped bool) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
