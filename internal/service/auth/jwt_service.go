// Package auth issues and validates session tokens and verifies passwords.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates the bearer tokens that turn an anonymous
// session into an authenticated one.
type JWTService interface {
	// GenerateToken returns a signed token for the user and its expiry.
	GenerateToken(ctx context.Context, userID uuid.UUID, username string) (string, time.Time, error)

	// ValidateToken verifies signature and lifetime and returns the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	UserID    uuid.UUID
	Username  string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
