package ingest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// fakeExtractor returns a canned result and records whether it was called.
type fakeExtractor struct {
	text   string
	err    error
	called bool
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	f.called = true
	return f.text, f.err
}

func TestGateOrdering(t *testing.T) {
	t.Parallel()

	anon := domain.AnonymousSession()
	user := domain.AuthenticatedSession(uuid.New(), "alice")

	tests := []struct {
		name    string
		session domain.Session
		file    string
		size    int64
		want    error
	}{
		{"anonymous is rejected before extension", anon, "notes.pdf", 10 << 20, ErrLoginRequired},
		{"extension is checked before size", user, "notes.pdf", 10 << 20, ErrUnsupportedFile},
		{"size over ceiling", user, "notes.docx", MaxUploadBytes + 1, ErrFileTooLarge},
		{"size at ceiling", user, "notes.docx", MaxUploadBytes, nil},
		{"extension is case-sensitive", user, "NOTES.DOCX", 100, ErrUnsupportedFile},
		{"extension must be a suffix", user, "notes.docx.pdf", 100, ErrUnsupportedFile},
		{"legacy doc is rejected", user, "notes.doc", 100, ErrUnsupportedFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Gate(tt.session, tt.file, tt.size, 0)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFileTooLargeMessage(t *testing.T) {
	t.Parallel()

	user := domain.AuthenticatedSession(uuid.New(), "alice")
	tests := []struct {
		maxBytes int64
		want     string
	}{
		{MaxUploadBytes, "File must be 2MB or less."},
		{5 << 20, "File must be 5MB or less."},
		{512 << 10, "File must be 512KB or less."},
		{1500, "File must be 1,500 bytes or less."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := Gate(user, "notes.docx", tt.maxBytes+1, tt.maxBytes)
			require.ErrorIs(t, err, ErrFileTooLarge)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestIngest(t *testing.T) {
	t.Parallel()

	user := domain.AuthenticatedSession(uuid.New(), "alice")
	body := func() *bytes.Reader { return bytes.NewReader([]byte("PK")) }

	t.Run("success", func(t *testing.T) {
		ex := &fakeExtractor{text: "  Cats are mammals.\n\nDogs bark.  "}
		ing := NewIngester(ex, DefaultLimits(), 0)

		text, err := ing.Ingest(context.Background(), user, Upload{Name: "a.docx", Size: 2, Body: body()})
		require.NoError(t, err)
		assert.Equal(t, 5, text.WordCount)
		assert.Equal(t, "Cats are mammals.\n\nDogs bark.", text.Raw)
	})

	t.Run("gate failure skips extraction", func(t *testing.T) {
		ex := &fakeExtractor{text: "x"}
		ing := NewIngester(ex, DefaultLimits(), 0)

		_, err := ing.Ingest(context.Background(), domain.AnonymousSession(), Upload{Name: "a.docx", Size: 2, Body: body()})
		assert.ErrorIs(t, err, ErrLoginRequired)
		assert.False(t, ex.called)
	})

	t.Run("extraction failure", func(t *testing.T) {
		ex := &fakeExtractor{err: errors.New("not a zip")}
		ing := NewIngester(ex, DefaultLimits(), 0)

		_, err := ing.Ingest(context.Background(), user, Upload{Name: "a.docx", Size: 2, Body: body()})
		assert.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("empty document", func(t *testing.T) {
		ex := &fakeExtractor{text: " \n\t "}
		ing := NewIngester(ex, DefaultLimits(), 0)

		_, err := ing.Ingest(context.Background(), user, Upload{Name: "a.docx", Size: 2, Body: body()})
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("extracted text over quota", func(t *testing.T) {
		ex := &fakeExtractor{text: words(1001)}
		ing := NewIngester(ex, DefaultLimits(), 0)

		_, err := ing.Ingest(context.Background(), user, Upload{Name: "a.docx", Size: 2, Body: body()})
		require.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, "Extracted text exceeds 1,000 words. Please use a smaller document.", err.Error())
	})

	t.Run("body larger than declared size", func(t *testing.T) {
		ex := &fakeExtractor{text: "x"}
		ing := NewIngester(ex, DefaultLimits(), 4)

		_, err := ing.Ingest(context.Background(), user, Upload{Name: "a.docx", Size: 1, Body: bytes.NewReader(make([]byte, 5))})
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Equal(t, "File must be 4 bytes or less.", err.Error())
		assert.False(t, ex.called)
	})
}
