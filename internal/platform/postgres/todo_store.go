package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/store"
)

// PostgresTodoStore implements store.TodoStore on PostgreSQL.
type PostgresTodoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TodoStore = (*PostgresTodoStore)(nil)

// NewPostgresTodoStore creates a todo store.
func NewPostgresTodoStore(db store.DBTX, logger *slog.Logger) *PostgresTodoStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTodoStore{db: db, logger: logger.With(slog.String("component", "todo_store"))}
}

// Create implements store.TodoStore.
func (s *PostgresTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	if err := todo.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4)
	`, todo.ID, todo.UserID, todo.Text, todo.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create todo",
			redact.Attr(err),
			slog.String("todo_id", todo.ID.String()))
		return store.NewStoreError("todo", "create", "insert failed", MapError(err))
	}
	return nil
}

// ListByUser implements store.TodoStore.
func (s *PostgresTodoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, text, created_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, store.NewStoreError("todo", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt); err != nil {
			return nil, store.NewStoreError("todo", "list", "scan failed", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("todo", "list", "iteration failed", err)
	}
	return todos, nil
}

// Delete implements store.TodoStore.
func (s *PostgresTodoStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return store.NewStoreError("todo", "delete", "delete failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTodoNotFound)
}
