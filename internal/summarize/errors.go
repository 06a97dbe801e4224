package summarize

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors wrap one of these.
var (
	// ErrNetwork means the summarization endpoint could not be reached.
	ErrNetwork = errors.New("summarization service unreachable")

	// ErrService means the endpoint answered with an error.
	ErrService = errors.New("summarization service error")

	// ErrEmptyText is returned when there is nothing to summarize.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidResponse is returned when a model response cannot be used.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model refuses the content.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during summarization")

	// ErrInvalidConfig is returned when a backend is misconfigured.
	ErrInvalidConfig = errors.New("invalid summarizer configuration")
)

// User-visible messages for the client side error kinds.
const (
	NetworkErrorMessage = "Could not reach the summarization service. Make sure the server is running."
	serviceErrorPrefix  = "Error: "
)

// NetworkError reports a transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNetwork.Error(), e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ServiceError reports an error payload or a non-2xx status.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", ErrService.Error(), e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return ErrService
}

// UserMessage returns the text a client shows for a failed summarization.
func UserMessage(err error) string {
	var svc *ServiceError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &svc):
		return serviceErrorPrefix + svc.Message
	case errors.Is(err, ErrNetwork):
		return NetworkErrorMessage
	default:
		return serviceErrorPrefix + err.Error()
	}
}
