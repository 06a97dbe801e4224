package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/service"
)

// TodoHandler serves the per-user task list.
type TodoHandler struct {
	todos  service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(todos service.TodoService, logger *slog.Logger) *TodoHandler {
	if todos == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("todo service cannot be nil for TodoHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoHandler{todos: todos, logger: logger.With(slog.String("component", "todo_handler"))}
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todos.List(r.Context(), shared.SessionFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]TodoResponse, 0, len(todos))
	for _, t := range todos {
		resp = append(resp, todoToResponse(t))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Add handles POST /api/todos.
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	session := shared.SessionFromContext(r.Context())
	if !session.IsAuthenticated() {
		HandleAPIError(w, r, service.ErrAuthRequired)
		return
	}

	var req TodoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	todo, err := h.todos.Add(r.Context(), session, req.Text)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, todoToResponse(*todo))
}

// Remove handles DELETE /api/todos/{id}.
func (h *TodoHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.todos.Remove(r.Context(), shared.SessionFromContext(r.Context()), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
