// Package client talks to the notesy API on behalf of the terminal client:
// sign-in, token verification and the per-user todo list.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	DefaultTimeout    = 15 * time.Second
	DefaultRetryCount = 2
)

var (
	// ErrUnreachable means the server could not be contacted.
	ErrUnreachable = errors.New("server unreachable")

	// ErrUnauthorized means the server rejected the credentials or token.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// User is the account record returned by the server.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Auth is the result of a successful sign-in.
type Auth struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Todo is one entry of the user's task list.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}

// Client is a thread-safe API client. The bearer token can be swapped at
// runtime when the session changes.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("server URL must use http or https, got %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}

	httpClient := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	httpClient.AddRetryCondition(retryCondition)

	return &Client{http: httpClient, token: cfg.Token}, nil
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// SetToken replaces the bearer token. An empty token makes anonymous calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a token. The client keeps using its
// previous token; callers switch sessions explicitly.
func (c *Client) Login(ctx context.Context, email, password string) (*Auth, error) {
	var out Auth
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Auth, error) {
	var out Auth
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify checks the current token and returns its user.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	if c.Token() == "" {
		return nil, ErrUnauthorized
	}
	var out verifyResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &out, true); err != nil {
		return nil, err
	}
	if !out.Valid {
		return nil, ErrUnauthorized
	}
	return &out.User, nil
}

// Todos lists the user's todos, or the demo list when signed out.
func (c *Client) Todos(ctx context.Context) ([]Todo, error) {
	var out []Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTodo appends a todo to the signed-in user's list.
func (c *Client) AddTodo(ctx context.Context, text string) (*Todo, error) {
	var out Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", map[string]string{"text": text}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveTodo deletes one of the signed-in user's todos.
func (c *Client) RemoveTodo(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id.String(), nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any, withToken bool) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&errorPayload{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	if withToken {
		if token := c.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		if payload, ok := resp.Error().(*errorPayload); ok && payload != nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if r == nil {
		return false
	}
	switch r.StatusCode() {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
