package ingest

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Ingestion errors. Messages are shown to users verbatim.
var (
	ErrQuotaExceeded    = errors.New("word quota exceeded")
	ErrLoginRequired    = errors.New("Please log in to upload files.")
	ErrUnsupportedFile  = errors.New("Only .docx files are allowed.")
	ErrFileTooLarge     = errors.New("File must be 2MB or less.")
	ErrExtractionFailed = errors.New("Failed to process the DOCX file. Please ensure it's a valid document.")
	ErrEmptyDocument    = errors.New("No text content found in the document.")
	ErrEmptyInput       = errors.New("no text to process")
	ErrFlashcardsGated  = errors.New("Please log in to access flashcard generation.")
)

// QuotaExceededError reports text over the active word ceiling. Extracted is
// set when the text came from an uploaded document.
type QuotaExceededError struct {
	WordCount int
	WordLimit int
	Extracted bool
}

func (e *QuotaExceededError) Error() string {
	if e.Extracted {
		return fmt.Sprintf("Extracted text exceeds %s words. Please use a smaller document.", FormatCount(e.WordLimit))
	}
	return fmt.Sprintf("Text exceeds %s words.", FormatCount(e.WordLimit))
}

// Is makes every QuotaExceededError match ErrQuotaExceeded.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// FileTooLargeError reports an upload over the configured size ceiling.
type FileTooLargeError struct {
	MaxBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("File must be %s or less.", formatBytes(e.MaxBytes))
}

// Is makes every FileTooLargeError match ErrFileTooLarge.
func (e *FileTooLargeError) Is(target error) bool {
	return target == ErrFileTooLarge
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return printer.Sprintf("%d bytes", n)
	}
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with comma thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
