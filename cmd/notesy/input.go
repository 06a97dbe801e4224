package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/extract"
	"github.com/phrazzld/notesy-api/internal/ingest"
)

func newIngester() *ingest.Ingester {
	return ingest.NewIngester(
		extract.NewDocxExtractor(extract.DefaultMaxDocumentBytes),
		ingest.DefaultLimits(),
		ingest.MaxUploadBytes,
	)
}

// readInput returns the text named by args: a .docx document, a text file,
// or stdin when args is empty or "-". Anything that looks like a Word file,
// whatever the case of its extension, goes through the upload gates so that
// NOTES.DOCX is rejected instead of being read as text.
func readInput(ctx context.Context, cmd *cobra.Command, args []string, session domain.Session) (ingest.NormalizedText, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return ingest.NormalizedText{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return ingest.Normalize(string(data)), nil
	}

	path := args[0]
	if strings.EqualFold(filepath.Ext(path), ingest.AllowedExtension) {
		f, err := os.Open(path)
		if err != nil {
			return ingest.NormalizedText{}, err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return ingest.NormalizedText{}, err
		}
		return newIngester().Ingest(ctx, session, ingest.Upload{
			Name: filepath.Base(path),
			Size: info.Size(),
			Body: f,
		})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.NormalizedText{}, err
	}
	return ingest.Normalize(string(data)), nil
}

// promote applies the session's quota to text the way the editor does.
func promote(text ingest.NormalizedText, session domain.Session) (ingest.NormalizedText, error) {
	draft := ingest.NewDraft(ingest.PolicyFor(session))
	draft.SetText(text.Raw)
	out, err := draft.Promote()
	if errors.Is(err, ingest.ErrEmptyInput) {
		return out, fmt.Errorf("nothing to process: the input is empty")
	}
	return out, err
}
