package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyDeck is returned when a persisted deck has no cards.
var ErrEmptyDeck = errors.New("deck must contain at least one card")

// StoredDeck is the persisted study deck of a user together with its cursor.
// Generation is the request token of the synthesis that produced the cards;
// a deck may only be replaced by one with a larger generation.
type StoredDeck struct {
	UserID       uuid.UUID `json:"user_id"`
	Cards        []Card    `json:"cards"`
	CurrentIndex int       `json:"current_index"`
	IsFlipped    bool      `json:"is_flipped"`
	Generation   int64     `json:"generation"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks that the deck belongs to a user and has cards.
func (d *StoredDeck) Validate() error {
	if d.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if len(d.Cards) == 0 {
		return ErrEmptyDeck
	}
	return nil
}
