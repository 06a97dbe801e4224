package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/service/auth"
	"github.com/phrazzld/notesy-api/internal/store"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ingest.ErrQuotaExceeded),
		errors.Is(err, ingest.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, ingest.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, ingest.ErrExtractionFailed),
		errors.Is(err, ingest.ErrEmptyDocument):
		return http.StatusUnprocessableEntity

	case errors.Is(err, ingest.ErrLoginRequired),
		errors.Is(err, ingest.ErrFlashcardsGated):
		return http.StatusForbidden

	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrRequestInFlight),
		errors.Is(err, store.ErrStaleGeneration),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ingest.ErrEmptyInput),
		errors.Is(err, summarize.ErrEmptyText),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, summarize.ErrNetwork),
		errors.Is(err, summarize.ErrService),
		errors.Is(err, summarize.ErrInvalidResponse),
		errors.Is(err, summarize.ErrContentBlocked),
		errors.Is(err, summarize.ErrTransientFailure):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message shown to the client for err.
// Ingestion errors carry user-facing text and pass through unchanged.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var quota *ingest.QuotaExceededError
	var tooLarge *ingest.FileTooLargeError
	var svc *summarize.ServiceError

	switch {
	case errors.As(err, &quota):
		return quota.Error()
	case errors.As(err, &tooLarge):
		return tooLarge.Error()
	case errors.Is(err, ingest.ErrQuotaExceeded):
		return "Text exceeds the word limit"

	case errors.Is(err, ingest.ErrFileTooLarge):
		return ingest.ErrFileTooLarge.Error()
	case errors.Is(err, ingest.ErrUnsupportedFile):
		return ingest.ErrUnsupportedFile.Error()
	case errors.Is(err, ingest.ErrEmptyDocument):
		return ingest.ErrEmptyDocument.Error()
	case errors.Is(err, ingest.ErrExtractionFailed):
		return ingest.ErrExtractionFailed.Error()
	case errors.Is(err, ingest.ErrLoginRequired):
		return ingest.ErrLoginRequired.Error()
	case errors.Is(err, ingest.ErrFlashcardsGated):
		return ingest.ErrFlashcardsGated.Error()

	case errors.Is(err, ingest.ErrEmptyInput),
		errors.Is(err, summarize.ErrEmptyText):
		return "No text to process"

	case errors.Is(err, service.ErrInvalidCredentials):
		return service.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrAuthRequired),
		errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrRequestInFlight):
		return "Flashcard generation is already in progress"
	case errors.Is(err, store.ErrStaleGeneration):
		return "A newer flashcard deck has already been saved"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrDeckNotFound):
		return "No flashcard deck found"
	case errors.Is(err, store.ErrTodoNotFound):
		return "Todo not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrInvalidAction):
		return "Invalid deck action"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, summarize.ErrContentBlocked):
		return "The summarization service declined to process this text"
	case errors.As(err, &svc):
		return "Summarization failed: " + svc.Message
	case errors.Is(err, summarize.ErrNetwork),
		errors.Is(err, summarize.ErrService),
		errors.Is(err, summarize.ErrInvalidResponse),
		errors.Is(err, summarize.ErrTransientFailure):
		return "Summarization service unavailable"

	default:
		return unexpectedErrorMessage
	}
}

// validationMessage renders a domain validation error. Domain messages are
// written for users, the "validation failed" prefix is not.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(domain.ErrValidation.Error())+2:]
	}
	if msg == "" || msg == domain.ErrValidation.Error() {
		return "Validation error"
	}
	return "Validation error: " + msg
}

// SanitizeValidationError turns a validator error into a short message
// naming the field and the failed rule.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()
	if !strings.Contains(errMsg, "Field validation") {
		return "Validation error"
	}

	// Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag
	parts := strings.Split(errMsg, "Error:")
	if len(parts) < 2 {
		return "Validation error"
	}
	fieldParts := strings.Split(parts[1], "'")
	if len(fieldParts) < 3 {
		return "Validation error"
	}
	field := fieldParts[1]
	if len(fieldParts) >= 5 {
		return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(fieldParts[3]))
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
