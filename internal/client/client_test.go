package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Token: token, RetryCount: 0, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "empty", baseURL: "", wantErr: true},
		{name: "no scheme", baseURL: "localhost:8080", wantErr: true},
		{name: "http", baseURL: "http://localhost:8080/", wantErr: false},
		{name: "https", baseURL: "https://notesy.example.com", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
		})
	}
}

func TestLogin(t *testing.T) {
	userID := uuid.New()
	expires := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "hunter22" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user":       map[string]any{"id": userID, "username": "ada", "email": body["email"]},
			"token":      "tok-123",
			"expires_at": expires.Format(time.RFC3339),
		})
	}, "old-token")

	auth, err := c.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", auth.Token)
	assert.Equal(t, userID, auth.User.ID)
	assert.True(t, expires.Equal(auth.ExpiresAt))
	assert.Equal(t, "old-token", c.Token(), "login must not swap the token by itself")

	_, err = c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestVerify(t *testing.T) {
	userID := uuid.New()
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"valid": true,
			"user":  map[string]any{"id": userID, "username": "ada", "email": "ada@example.com"},
		})
	}

	t.Run("no token", func(t *testing.T) {
		c := newTestClient(t, handler, "")
		_, err := c.Verify(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("bad token", func(t *testing.T) {
		c := newTestClient(t, handler, "bad")
		_, err := c.Verify(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("good token", func(t *testing.T) {
		c := newTestClient(t, handler, "good")
		user, err := c.Verify(context.Background())
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
	})
}

func TestTodos(t *testing.T) {
	todoID := uuid.New()
	var removed string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/todos":
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": todoID, "text": "Read chapter 3", "createdAt": time.Now().UTC()},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/todos":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusCreated, map[string]any{
				"id": uuid.New(), "text": body["text"], "createdAt": time.Now().UTC(),
			})
		case r.Method == http.MethodDelete:
			removed = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, "good")

	todos, err := c.Todos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Read chapter 3", todos[0].Text)

	added, err := c.AddTodo(context.Background(), "Review flashcards")
	require.NoError(t, err)
	assert.Equal(t, "Review flashcards", added.Text)

	require.NoError(t, c.RemoveTodo(context.Background(), todoID))
	assert.Equal(t, "/api/todos/"+todoID.String(), removed)
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url, RetryCount: 0, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Todos(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestSetToken(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []any{})
	}, "")

	_, err := c.Todos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	c.SetToken("fresh")
	_, err = c.Todos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer fresh", got)
}
