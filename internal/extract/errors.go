package extract

import "errors"

var (
	// ErrNotZip is returned when the payload is not a ZIP container.
	ErrNotZip = errors.New("payload is not a zip container")

	// ErrMissingDocument is returned when the archive has no main document part.
	ErrMissingDocument = errors.New("archive has no word/document.xml")

	// ErrDocumentTooLarge is returned when the decompressed main document
	// exceeds the configured ceiling.
	ErrDocumentTooLarge = errors.New("decompressed document exceeds size limit")

	// ErrMalformedDocument is returned when the main document is not valid XML.
	ErrMalformedDocument = errors.New("malformed document xml")
)
