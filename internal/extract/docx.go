package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart     = "word/document.xml"
	zipMIME          = "application/zip"

	// DefaultMaxDocumentBytes caps the decompressed size of word/document.xml.
	DefaultMaxDocumentBytes = 32 << 20
)

// Extractor converts a document payload into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// DocxExtractor reads the text of the main document part of a .docx file.
// Runs are concatenated, tabs and breaks are kept, and paragraphs are
// separated by a blank line.
type DocxExtractor struct {
	maxDocumentBytes int64
}

var _ Extractor = (*DocxExtractor)(nil)

// NewDocxExtractor creates a DocxExtractor. A non-positive limit selects
// DefaultMaxDocumentBytes.
func NewDocxExtractor(maxDocumentBytes int64) *DocxExtractor {
	if maxDocumentBytes <= 0 {
		maxDocumentBytes = DefaultMaxDocumentBytes
	}
	return &DocxExtractor{maxDocumentBytes: maxDocumentBytes}
}

// Extract implements Extractor.
func (e *DocxExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !isZip(data) {
		return "", ErrNotZip
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", ErrMissingDocument
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer func() { _ = rc.Close() }()

	limited := &limitedReader{r: rc, remaining: e.maxDocumentBytes}
	text, err := readDocumentText(ctx, limited)
	if err != nil {
		if limited.exceeded {
			return "", ErrDocumentTooLarge
		}
		return "", err
	}
	return text, nil
}

// isZip reports whether the sniffed type is a ZIP container or one of its
// descendants, such as the OOXML word processing type.
func isZip(data []byte) bool {
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if mt.Is(zipMIME) {
			return true
		}
	}
	return false
}

func readDocumentText(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out       strings.Builder
		paragraph strings.Builder
		inText    bool
		tokens    int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		tokens++
		if tokens%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				paragraph.WriteByte('\t')
			case "br", "cr":
				paragraph.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteString(paragraph.String())
				out.WriteString("\n\n")
				paragraph.Reset()
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}

	// Text outside a closed paragraph is kept.
	out.WriteString(paragraph.String())
	return out.String(), nil
}

// limitedReader fails once more than remaining bytes have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		l.exceeded = true
		return 0, ErrDocumentTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return n, ErrDocumentTooLarge
	}
	return n, err
}
