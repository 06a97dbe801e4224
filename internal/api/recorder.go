package api

import (
	"errors"

	"github.com/phrazzld/notesy-api/internal/ingest"
)

// Recorder receives pipeline outcomes for instrumentation.
type Recorder interface {
	SummaryProduced(model string)
	DeckGenerated()
	Rejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) SummaryProduced(string) {}
func (nopRecorder) DeckGenerated()         {}
func (nopRecorder) Rejected(string)        {}

// rejectionReason labels input rejections; other errors return "".
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ingest.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ingest.ErrLoginRequired), errors.Is(err, ingest.ErrFlashcardsGated):
		return "login_required"
	case errors.Is(err, ingest.ErrUnsupportedFile):
		return "unsupported_file"
	case errors.Is(err, ingest.ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, ingest.ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, ingest.ErrEmptyDocument):
		return "empty_document"
	case errors.Is(err, ingest.ErrEmptyInput):
		return "empty_input"
	default:
		return ""
	}
}
