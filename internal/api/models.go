package api

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
	// ExpiresAt is RFC 3339.
	ExpiresAt string `json:"expires_at"`
}

// VerifyResponse is returned by GET /api/auth/verify.
type VerifyResponse struct {
	Valid bool         `json:"valid"`
	User  UserResponse `json:"user"`
}

// TextRequest carries raw input text. Emptiness and quota are checked by
// the service so that the client sees the domain messages.
type TextRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse describes input text under the caller's quota.
type AnalyzeResponse struct {
	Text                  string `json:"text"`
	WordCount             int    `json:"word_count"`
	WordLimit             int    `json:"word_limit"`
	State                 string `json:"state"`
	Message               string `json:"message,omitempty"`
	CanUpload             bool   `json:"can_upload"`
	CanGenerateFlashcards bool   `json:"can_generate_flashcards"`
}

// SummarizeResponse is the success body of POST /summarize.
type SummarizeResponse struct {
	Summary        string `json:"summary"`
	ModelUsed      string `json:"model_used"`
	Status         string `json:"status"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
	SentencesUsed  int    `json:"sentences_used"`
}

// SummarizeErrorResponse is the error body of POST /summarize.
type SummarizeErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	TraceID string `json:"trace_id,omitempty"`
}

// CardResponse is one flashcard.
type CardResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CurrentCardResponse is the card under the cursor and the visible side.
type CurrentCardResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Showing  string `json:"showing"`
}

// DeckResponse is a deck with its cursor.
type DeckResponse struct {
	Cards        []CardResponse       `json:"cards"`
	CurrentIndex int                  `json:"current_index"`
	IsFlipped    bool                 `json:"is_flipped"`
	Total        int                  `json:"total"`
	Current      *CurrentCardResponse `json:"current,omitempty"`
	Demo         bool                 `json:"demo"`
	Generation   int64                `json:"generation,omitempty"`
}

// TodoRequest is the body of POST /api/todos.
type TodoRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// TodoResponse is one task.
type TodoResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	Summarizer string `json:"summarizer"`
	Database   string `json:"database"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func authToResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:      userToResponse(res.User),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func analysisToResponse(a service.Analysis) AnalyzeResponse {
	return AnalyzeResponse{
		Text:                  a.Text.Raw,
		WordCount:             a.Text.WordCount,
		WordLimit:             a.WordLimit,
		State:                 a.State.String(),
		Message:               a.Message,
		CanUpload:             a.CanUpload,
		CanGenerateFlashcards: a.CanGenerateFlashcards,
	}
}

func summaryToResponse(original string, result summarize.Result) SummarizeResponse {
	return SummarizeResponse{
		Summary:        result.Summary,
		ModelUsed:      result.ModelUsed,
		Status:         "success",
		OriginalLength: utf8.RuneCountInString(original),
		SummaryLength:  utf8.RuneCountInString(result.Summary),
		SentencesUsed:  result.SentencesUsed,
	}
}

func deckToResponse(state service.DeckState) DeckResponse {
	nav := state.Navigator()
	cards := nav.Deck().Cards()

	resp := DeckResponse{
		Cards:        make([]CardResponse, 0, len(cards)),
		CurrentIndex: nav.Index(),
		IsFlipped:    nav.Flipped(),
		Total:        len(cards),
		Demo:         state.Demo,
		Generation:   state.Generation,
	}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, CardResponse{Question: c.Question, Answer: c.Answer})
	}
	if card, ok := nav.Current(); ok {
		resp.Current = &CurrentCardResponse{
			Question: card.Question,
			Answer:   card.Answer,
			Showing:  nav.Showing(),
		}
	}
	return resp
}

func todoToResponse(t domain.Todo) TodoResponse {
	return TodoResponse{ID: t.ID, Text: t.Text, CreatedAt: t.CreatedAt}
}
