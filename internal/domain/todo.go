package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyTodoText is returned when a todo has no text after trimming.
var ErrEmptyTodoText = errors.New("todo text cannot be empty")

// Todo is a single entry of a user's task list.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTodo creates a todo for the given user with trimmed text.
func NewTodo(userID uuid.UUID, text string) (*Todo, error) {
	todo := &Todo{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if err := todo.Validate(); err != nil {
		return nil, err
	}
	return todo, nil
}

// Validate checks if the Todo has valid data.
func (t *Todo) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if t.Text == "" {
		return ErrEmptyTodoText
	}
	return nil
}

// DemoTodos is the fixed list shown to anonymous sessions. It is never
// persisted.
func DemoTodos() []Todo {
	epoch := time.Unix(0, 0).UTC()
	return []Todo{
		{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("notesy:demo-todo:1")), Text: "Welcome to the demo list!", CreatedAt: epoch},
		{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("notesy:demo-todo:2")), Text: "Login to save your tasks permanently.", CreatedAt: epoch},
	}
}
