package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// TodoStore persists per-user task lists.
type TodoStore interface {
	// Create saves a new todo.
	Create(ctx context.Context, todo *domain.Todo) error

	// ListByUser returns the user's todos ordered by creation time, then ID.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error)

	// Delete removes a todo owned by userID. Returns ErrTodoNotFound when
	// no such todo belongs to the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
