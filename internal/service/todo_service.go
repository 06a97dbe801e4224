package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/store"
)

// TodoService manages per-user task lists.
type TodoService interface {
	// List returns the user's todos, or the demo list for anonymous sessions.
	List(ctx context.Context, session domain.Session) ([]domain.Todo, error)

	// Add creates a todo for the authenticated user.
	Add(ctx context.Context, session domain.Session, text string) (*domain.Todo, error)

	// Remove deletes one of the authenticated user's todos.
	Remove(ctx context.Context, session domain.Session, id uuid.UUID) error
}

type todoService struct {
	todos  store.TodoStore
	logger *slog.Logger
}

// NewTodoService creates a TodoService.
func NewTodoService(todos store.TodoStore, logger *slog.Logger) (TodoService, error) {
	if todos == nil {
		return nil, fmt.Errorf("todo store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &todoService{
		todos:  todos,
		logger: logger.With("component", "todo_service"),
	}, nil
}

func (s *todoService) List(ctx context.Context, session domain.Session) ([]domain.Todo, error) {
	if !session.IsAuthenticated() {
		return domain.DemoTodos(), nil
	}

	todos, err := s.todos.ListByUser(ctx, session.Identity)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list todos",
			"user_id", session.Identity,
			redact.Attr(err))
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) Add(ctx context.Context, session domain.Session, text string) (*domain.Todo, error) {
	if !session.IsAuthenticated() {
		return nil, ErrAuthRequired
	}

	todo, err := domain.NewTodo(session.Identity, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create todo",
			"user_id", session.Identity,
			redact.Attr(err))
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Remove(ctx context.Context, session domain.Session, id uuid.UUID) error {
	if !session.IsAuthenticated() {
		return ErrAuthRequired
	}

	if err := s.todos.Delete(ctx, session.Identity, id); err != nil {
		if !errors.Is(err, store.ErrTodoNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete todo",
				"user_id", session.Identity,
				"todo_id", id,
				redact.Attr(err))
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
