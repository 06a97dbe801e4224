package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/service/auth"
	"github.com/phrazzld/notesy-api/internal/store"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "text quota",
			err:     &ingest.QuotaExceededError{WordCount: 501, WordLimit: 500},
			status:  http.StatusRequestEntityTooLarge,
			message: "Text exceeds 500 words.",
		},
		{
			name:    "extracted quota",
			err:     fmt.Errorf("ingest: %w", &ingest.QuotaExceededError{WordCount: 1200, WordLimit: 1000, Extracted: true}),
			status:  http.StatusRequestEntityTooLarge,
			message: "Extracted text exceeds 1,000 words. Please use a smaller document.",
		},
		{"file too large", ingest.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File must be 2MB or less."},
		{"configured ceiling", &ingest.FileTooLargeError{MaxBytes: 5 << 20}, http.StatusRequestEntityTooLarge, "File must be 5MB or less."},
		{"wrong extension", ingest.ErrUnsupportedFile, http.StatusUnsupportedMediaType, "Only .docx files are allowed."},
		{
			name:    "extraction failure",
			err:     fmt.Errorf("%w: zip: not a valid zip file", ingest.ErrExtractionFailed),
			status:  http.StatusUnprocessableEntity,
			message: "Failed to process the DOCX file. Please ensure it's a valid document.",
		},
		{"empty document", ingest.ErrEmptyDocument, http.StatusUnprocessableEntity, "No text content found in the document."},
		{"upload gated", ingest.ErrLoginRequired, http.StatusForbidden, "Please log in to upload files."},
		{"flashcards gated", ingest.ErrFlashcardsGated, http.StatusForbidden, "Please log in to access flashcard generation."},
		{"empty input", ingest.ErrEmptyInput, http.StatusBadRequest, "No text to process"},
		{"auth required", service.ErrAuthRequired, http.StatusUnauthorized, "Authentication required"},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"in flight", service.ErrRequestInFlight, http.StatusConflict, "Flashcard generation is already in progress"},
		{"stale deck", fmt.Errorf("store: %w", store.ErrStaleGeneration), http.StatusConflict, "A newer flashcard deck has already been saved"},
		{"email exists", store.ErrEmailExists, http.StatusConflict, "Email already exists"},
		{"username exists", store.ErrUsernameExists, http.StatusConflict, "Username already exists"},
		{"deck missing", fmt.Errorf("navigate: %w", store.ErrDeckNotFound), http.StatusNotFound, "No flashcard deck found"},
		{"todo missing", store.ErrTodoNotFound, http.StatusNotFound, "Todo not found"},
		{"invalid action", service.ErrInvalidAction, http.StatusBadRequest, "Invalid deck action"},
		{
			name:    "domain validation",
			err:     fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrUsernameTooShort),
			status:  http.StatusBadRequest,
			message: "Validation error: username must be at least 3 characters long",
		},
		{
			name:    "network failure",
			err:     &summarize.NetworkError{Err: errors.New("dial tcp 10.0.0.1:443: connection refused")},
			status:  http.StatusBadGateway,
			message: "Summarization service unavailable",
		},
		{
			name:    "service failure",
			err:     fmt.Errorf("summarize: %w", &summarize.ServiceError{StatusCode: 503, Message: "overloaded"}),
			status:  http.StatusBadGateway,
			message: "Summarization failed: overloaded",
		},
		{"blocked", summarize.ErrContentBlocked, http.StatusBadGateway, "The summarization service declined to process this text"},
		{
			name:    "unknown",
			err:     errors.New("pq: relation \"decks\" does not exist"),
			status:  http.StatusInternalServerError,
			message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.message, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetSafeErrorMessageNil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	v := validator.New()
	err := v.Struct(LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Equal(t, "Invalid Email: invalid email format", SanitizeValidationError(err))

	err = v.Struct(RegisterRequest{Username: "al", Email: "a@example.com", Password: "passw0rd"})
	assert.Equal(t, "Invalid Username: too short", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
