package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxJSONBodyBytes caps every JSON request body. Larger bodies are answered
// with 413 before any of the text is counted.
const MaxJSONBodyBytes = 1 << 20

// RequestTooLargeMessage is returned for bodies over MaxJSONBodyBytes.
const RequestTooLargeMessage = "Request too large"

var validate = validator.New()

// DecodeJSON decodes the request body into v, reading at most
// MaxJSONBodyBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// DecodeFailure returns the status and client message for a DecodeJSON error.
func DecodeFailure(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, RequestTooLargeMessage
	}
	return http.StatusBadRequest, "Invalid request format"
}

// ValidateRequest validates v with its own Validate method when it has one,
// otherwise with its struct tags.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
