package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// AllowedExtension is the only accepted upload extension. The match is
// case-sensitive.
const AllowedExtension = ".docx"

// Extractor turns a document payload into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Upload describes a single uploaded document.
type Upload struct {
	Name string
	Size int64
	Body io.Reader
}

// Gate applies the upload preconditions in order: tier, extension, size.
// It does not read the body.
func Gate(session domain.Session, name string, size, maxBytes int64) error {
	if !session.CanUpload() {
		return ErrLoginRequired
	}
	if !strings.HasSuffix(name, AllowedExtension) {
		return ErrUnsupportedFile
	}
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	if size > maxBytes {
		return &FileTooLargeError{MaxBytes: maxBytes}
	}
	return nil
}

// Ingester runs uploads through the gates, the extractor and the quota.
type Ingester struct {
	extractor Extractor
	limits    Limits
	maxBytes  int64
}

// NewIngester creates an Ingester. A non-positive maxBytes selects
// MaxUploadBytes.
func NewIngester(extractor Extractor, limits Limits, maxBytes int64) *Ingester {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	return &Ingester{extractor: extractor, limits: limits, maxBytes: maxBytes}
}

// Ingest validates and extracts an upload. On success the returned text is
// within the session's quota. Failures wrap one of the package sentinels and
// leave no state behind.
func (i *Ingester) Ingest(ctx context.Context, session domain.Session, upload Upload) (NormalizedText, error) {
	if err := Gate(session, upload.Name, upload.Size, i.maxBytes); err != nil {
		return NormalizedText{}, err
	}

	// Read one byte past the ceiling so a lying size header is still caught.
	data, err := io.ReadAll(io.LimitReader(upload.Body, i.maxBytes+1))
	if err != nil {
		return NormalizedText{}, fmt.Errorf("%w: reading upload: %v", ErrExtractionFailed, err)
	}
	if int64(len(data)) > i.maxBytes {
		return NormalizedText{}, &FileTooLargeError{MaxBytes: i.maxBytes}
	}

	raw, err := i.extractor.Extract(ctx, data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return NormalizedText{}, err
		}
		return NormalizedText{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := Normalize(raw)
	if text.IsEmpty() {
		return NormalizedText{}, ErrEmptyDocument
	}

	policy := i.limits.PolicyFor(session)
	if !policy.Allows(text) {
		return NormalizedText{}, &QuotaExceededError{
			WordCount: text.WordCount,
			WordLimit: policy.WordLimit,
			Extracted: true,
		}
	}
	return text, nil
}
