package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/events"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

// summaryMsg carries the result of a summarization request.
type summaryMsg struct {
	token  uint64
	result summarize.Result
	err    error
}

// revealMsg ends the display stagger for the summary of token.
type revealMsg struct {
	token uint64
}

// deckMsg carries a freshly synthesized deck.
type deckMsg struct {
	token uint64
	deck  flashcard.Deck
}

// documentMsg carries the text extracted from a document.
type documentMsg struct {
	name string
	text ingest.NormalizedText
	err  error
}

// sessionMsg announces a session change published on the emitter.
type sessionMsg struct {
	event *events.SessionEvent
}

// logoutResultMsg reports a failed logout publish.
type logoutResultMsg struct {
	err error
}

func summarizeCmd(ctx context.Context, s summarize.Summarizer, token uint64, text ingest.NormalizedText) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Summarize(ctx, text.Raw)
		return summaryMsg{token: token, result: res, err: err}
	}
}

func revealCmd(token uint64, stagger time.Duration) tea.Cmd {
	return tea.Tick(stagger, func(time.Time) tea.Msg {
		return revealMsg{token: token}
	})
}

func synthesizeCmd(token uint64, text ingest.NormalizedText) tea.Cmd {
	return func() tea.Msg {
		return deckMsg{token: token, deck: flashcard.Generate(text.Raw)}
	}
}

func loadDocumentCmd(ctx context.Context, ingester *ingest.Ingester, session domain.Session, path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			return documentMsg{name: name, err: err}
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return documentMsg{name: name, err: err}
		}

		text, err := ingester.Ingest(ctx, session, ingest.Upload{Name: name, Size: info.Size(), Body: f})
		return documentMsg{name: name, text: text, err: err}
	}
}

// waitForSession blocks until the next session event arrives.
func waitForSession(ch <-chan *events.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg{event: event}
	}
}

func logoutCmd(ctx context.Context, sessions *events.SessionEmitter) tea.Cmd {
	return func() tea.Msg {
		return logoutResultMsg{err: sessions.Emit(ctx, events.NewLogoutEvent())}
	}
}

// sessionBridge forwards emitter callbacks into the update loop.
type sessionBridge chan *events.SessionEvent

func (b sessionBridge) HandleSessionEvent(ctx context.Context, event *events.SessionEvent) error {
	select {
	case b <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
