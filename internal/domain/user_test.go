package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  alice ", "Alice@Example.com", "password1")
	if err != nil {
		t.Fatalf("Failed to create valid user: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if user.Username != "alice" {
		t.Errorf("Expected trimmed username, got %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected lower-cased email, got %q", user.Email)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"short username", "al", "al@example.com", "password1", ErrUsernameTooShort},
		{"empty email", "alice", "", "password1", ErrEmptyEmail},
		{"no at sign", "alice", "alice.example.com", "password1", ErrInvalidEmail},
		{"no domain dot", "alice", "alice@example", "password1", ErrInvalidEmail},
		{"display name", "alice", "Alice <alice@example.com>", "password1", ErrInvalidEmail},
		{"short password", "alice", "alice@example.com", "pass1", ErrPasswordTooShort},
		{"long password", "alice", "alice@example.com", strings.Repeat("a1", 37), ErrPasswordTooLong},
		{"no digit", "alice", "alice@example.com", "passwordonly", ErrPasswordTooWeak},
		{"no letter", "alice", "alice@example.com", "1234567890", ErrPasswordTooWeak},
		{"empty password", "alice", "alice@example.com", "", ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserValidateWithHashedPassword(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$hash",
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected stored user to be valid, got %v", err)
	}

	user.ID = uuid.Nil
	if err := user.Validate(); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Expected ErrEmptyUserID, got %v", err)
	}
}
