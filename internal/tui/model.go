// Package tui implements the terminal study surface: a text editor with a
// live word quota, summarization through the remote service and a
// flashcard deck with flip and cyclic navigation.
//
// The bubbletea update loop is the only writer of the draft and the deck.
// Summarization, synthesis, document extraction and the display stagger
// run as commands whose results come back as messages tagged with a
// request token; results older than the newest applied token are dropped.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/events"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

// DefaultStagger delays showing a summary after it arrives.
const DefaultStagger = 300 * time.Millisecond

// Config wires runtime dependencies into the model.
type Config struct {
	Context    context.Context
	Summarizer summarize.Summarizer
	Ingester   *ingest.Ingester
	Limits     ingest.Limits
	Session    domain.Session
	// Sessions is optional. When set, login and logout events published on
	// it replace the model's session.
	Sessions *events.SessionEmitter
	// DocumentPath is loaded into the editor at start-up when set.
	DocumentPath string
	Stagger      time.Duration
}

type focus int

const (
	focusEditor focus = iota
	focusDeck
)

// Model is the bubbletea model of the study surface.
type Model struct {
	ctx        context.Context
	summarizer summarize.Summarizer
	ingester   *ingest.Ingester
	limits     ingest.Limits
	sessions   *events.SessionEmitter
	docPath    string
	stagger    time.Duration

	session domain.Session
	draft   *ingest.Draft
	nav     *flashcard.Navigator

	editor  textarea.Model
	spinner spinner.Model
	focus   focus

	issued  uint64
	applied uint64
	busy    bool

	pending summarize.Result
	output  string
	info    string
	err     string

	width int

	sessionCh   sessionBridge
	unsubscribe func()
}

// New creates the model. Call Close when the program exits.
func New(cfg Config) *Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	stagger := cfg.Stagger
	if stagger <= 0 {
		stagger = DefaultStagger
	}

	editor := textarea.New()
	editor.Placeholder = "Paste or type your notes…"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetWidth(80)
	editor.SetHeight(8)
	editor.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	m := &Model{
		ctx:        ctx,
		summarizer: cfg.Summarizer,
		ingester:   cfg.Ingester,
		limits:     cfg.Limits,
		sessions:   cfg.Sessions,
		docPath:    cfg.DocumentPath,
		stagger:    stagger,
		session:    cfg.Session,
		draft:      ingest.NewDraft(cfg.Limits.PolicyFor(cfg.Session)),
		nav:        flashcard.NewNavigator(flashcard.DemoDeck()),
		editor:     editor,
		spinner:    spin,
		focus:      focusEditor,
		width:      80,
	}

	if cfg.Sessions != nil {
		m.sessionCh = make(sessionBridge, 1)
		m.unsubscribe = cfg.Sessions.Subscribe(m.sessionCh)
	}
	return m
}

// Close detaches the model from the session emitter.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.sessionCh != nil {
		cmds = append(cmds, waitForSession(m.sessionCh))
	}
	if m.docPath != "" && m.ingester != nil {
		m.busy = true
		m.info = "Reading " + m.docPath + "…"
		cmds = append(cmds, loadDocumentCmd(m.ctx, m.ingester, m.session, m.docPath), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.editor.SetWidth(max(msg.Width-4, 20))
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case summaryMsg:
		return m, m.handleSummary(msg)
	case revealMsg:
		m.handleReveal(msg)
		return m, nil
	case deckMsg:
		m.handleDeck(msg)
		return m, nil
	case documentMsg:
		m.handleDocument(msg)
		return m, nil
	case sessionMsg:
		m.SetSession(msg.event.Session)
		return m, waitForSession(m.sessionCh)
	case logoutResultMsg:
		if msg.err != nil {
			m.err = "Logout failed: " + msg.err.Error()
		}
		return m, nil
	}

	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.toggleFocus()
		return m, nil
	case tea.KeyCtrlS:
		return m, m.startSummarize()
	case tea.KeyCtrlG:
		return m, m.startGenerate()
	case tea.KeyCtrlO:
		return m, m.startLogout()
	}

	if m.focus == focusDeck {
		switch msg.String() {
		case " ", "enter", "f":
			m.nav.Flip()
		case "right", "l", "n":
			m.nav.Next()
		case "left", "h", "p":
			m.nav.Previous()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if value := m.editor.Value(); value != m.draft.Text().Raw {
		m.err = ""
	}
	m.draft.SetText(m.editor.Value())
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusEditor {
		m.focus = focusDeck
		m.editor.Blur()
		return
	}
	m.focus = focusEditor
	m.editor.Focus()
}

// nextToken issues a request token newer than every earlier one.
func (m *Model) nextToken() uint64 {
	m.issued++
	return m.issued
}

// promote validates the draft for an action and records why it cannot run.
func (m *Model) promote() (ingest.NormalizedText, bool) {
	if m.busy {
		return ingest.NormalizedText{}, false
	}
	text, err := m.draft.Promote()
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyInput) {
			m.err = "Nothing to process yet."
		} else {
			m.err = err.Error()
		}
		return ingest.NormalizedText{}, false
	}
	return text, true
}

func (m *Model) startSummarize() tea.Cmd {
	if m.summarizer == nil {
		m.err = "Summarization is not configured."
		return nil
	}
	text, ok := m.promote()
	if !ok {
		return nil
	}
	token := m.nextToken()
	m.busy = true
	m.err = ""
	m.info = "Summarizing…"
	return tea.Batch(summarizeCmd(m.ctx, m.summarizer, token, text), m.spinner.Tick)
}

func (m *Model) startGenerate() tea.Cmd {
	if m.busy {
		return nil
	}
	if !m.session.CanGenerateFlashcards() {
		m.err = ingest.ErrFlashcardsGated.Error()
		return nil
	}
	text, ok := m.promote()
	if !ok {
		return nil
	}
	token := m.nextToken()
	m.busy = true
	m.err = ""
	m.info = "Generating flashcards…"
	return tea.Batch(synthesizeCmd(token, text), m.spinner.Tick)
}

func (m *Model) startLogout() tea.Cmd {
	if m.sessions == nil || !m.session.IsAuthenticated() {
		return nil
	}
	return logoutCmd(m.ctx, m.sessions)
}

func (m *Model) stale(token uint64) bool {
	return token < m.applied
}

func (m *Model) handleSummary(msg summaryMsg) tea.Cmd {
	if m.stale(msg.token) {
		return nil
	}
	if msg.err != nil {
		m.applied = msg.token
		m.busy = false
		m.info = ""
		m.err = summarize.UserMessage(msg.err)
		return nil
	}
	m.pending = msg.result
	return revealCmd(msg.token, m.stagger)
}

func (m *Model) handleReveal(msg revealMsg) {
	if m.stale(msg.token) || msg.token != m.issued {
		return
	}
	m.applied = msg.token
	m.busy = false
	m.output = m.pending.Summary
	m.info = fmt.Sprintf("Summary ready (%s).", m.pending.ModelUsed)
}

func (m *Model) handleDeck(msg deckMsg) {
	if m.stale(msg.token) {
		return
	}
	m.applied = msg.token
	m.busy = false
	m.nav.Replace(msg.deck)
	m.info = fmt.Sprintf("Generated %d flashcards.", msg.deck.Len())
	m.focus = focusDeck
	m.editor.Blur()
}

func (m *Model) handleDocument(msg documentMsg) {
	m.busy = false
	if msg.err != nil {
		m.info = ""
		m.err = documentMessage(msg.name, msg.err)
		return
	}
	m.editor.SetValue(msg.text.Raw)
	m.draft.SetText(msg.text.Raw)
	m.err = ""
	m.info = fmt.Sprintf("Loaded %s (%s words).", msg.name, ingest.FormatCount(msg.text.WordCount))
}

// SetSession replaces the active session and re-derives the quota. Leaving
// an authenticated session puts the demo deck back.
func (m *Model) SetSession(session domain.Session) {
	wasAuthenticated := m.session.IsAuthenticated()
	m.session = session
	m.draft.SetPolicy(m.limits.PolicyFor(session))

	switch {
	case session.IsAuthenticated():
		m.info = "Signed in as " + session.Username + "."
	case wasAuthenticated:
		m.nav.Replace(flashcard.DemoDeck())
		m.info = "Signed out."
	}
}

var ingestSentinels = []error{
	ingest.ErrLoginRequired,
	ingest.ErrUnsupportedFile,
	ingest.ErrFileTooLarge,
	ingest.ErrExtractionFailed,
	ingest.ErrEmptyDocument,
}

// documentMessage maps an ingestion failure to the text shown to the user.
func documentMessage(name string, err error) string {
	var quota *ingest.QuotaExceededError
	if errors.As(err, &quota) {
		return quota.Error()
	}
	var tooLarge *ingest.FileTooLargeError
	if errors.As(err, &tooLarge) {
		return tooLarge.Error()
	}
	for _, sentinel := range ingestSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return fmt.Sprintf("Could not read %s: %v", name, err)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("notesy"))
	b.WriteString("  ")
	b.WriteString(sessionStyle.Render(m.sessionLine()))
	b.WriteString("\n\n")

	editorPanel := panelStyle
	if m.focus == focusEditor {
		editorPanel = focusedPanelStyle
	}
	b.WriteString(editorPanel.Render(m.editor.View()))
	b.WriteString("\n")
	b.WriteString(m.counterLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.output != "" {
		b.WriteString(panelStyle.Width(max(m.width-4, 20)).Render("Summary\n\n" + m.output))
		b.WriteString("\n\n")
	}

	deckPanel := panelStyle
	if m.focus == focusDeck {
		deckPanel = focusedPanelStyle
	}
	b.WriteString(deckPanel.Width(max(m.width-4, 20)).Render(m.cardView()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) sessionLine() string {
	if m.session.IsAuthenticated() {
		return fmt.Sprintf("%s · %s words", m.session.Username, ingest.FormatCount(m.draft.Policy().WordLimit))
	}
	return fmt.Sprintf("guest · %s words", ingest.FormatCount(m.draft.Policy().WordLimit))
}

func (m *Model) counterLine() string {
	text := m.draft.Text()
	line := fmt.Sprintf("%s / %s words",
		ingest.FormatCount(text.WordCount), ingest.FormatCount(m.draft.Policy().WordLimit))
	if m.draft.State() == ingest.DraftOverQuota {
		return counterOverStyle.Render(line + "  " + m.draft.Message())
	}
	return counterStyle.Render(line)
}

func (m *Model) statusLine() string {
	switch {
	case m.err != "":
		return errorStyle.Render(m.err)
	case m.busy:
		return m.spinner.View() + " " + infoStyle.Render(m.info)
	case m.info != "":
		return infoStyle.Render(m.info)
	}
	return ""
}

func (m *Model) cardView() string {
	deck := m.nav.Deck()
	if deck.Len() == 0 {
		return "No flashcards yet. Press ctrl+g to generate them from your notes."
	}
	side, style := "Question", cardLabelStyle
	if m.nav.Flipped() {
		side, style = "Answer", cardAnswerStyle
	}
	header := style.Render(fmt.Sprintf("Card %d/%d · %s", m.nav.Index()+1, deck.Len(), side))
	return header + "\n\n" + m.nav.Showing()
}

func (m *Model) help() string {
	parts := []string{"tab switch panel", "ctrl+s summarize"}
	if m.session.CanGenerateFlashcards() {
		parts = append(parts, "ctrl+g flashcards")
	}
	if m.focus == focusDeck {
		parts = append(parts, "space flip", "←/→ previous/next")
	}
	if m.sessions != nil && m.session.IsAuthenticated() {
		parts = append(parts, "ctrl+o log out")
	}
	parts = append(parts, "esc quit")
	return strings.Join(parts, " • ")
}
