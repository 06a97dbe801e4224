package summarize

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Remote client defaults.
const (
	DefaultRemoteTimeout    = 60 * time.Second
	DefaultRemoteRetryCount = 2
	summarizePath           = "/summarize"
)

// RemoteConfig configures a RemoteClient.
type RemoteConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// RemoteClient calls a /summarize endpoint over HTTP.
type RemoteClient struct {
	client *resty.Client

	mu    sync.RWMutex
	token string
}

var _ Summarizer = (*RemoteClient)(nil)

type summarizeRequest struct {
	Text string `json:"text"`
}

type summarizeResponse struct {
	Summary       string `json:"summary"`
	ModelUsed     string `json:"model_used"`
	SentencesUsed int    `json:"sentences_used"`
	Error         string `json:"error"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// NewRemoteClient creates a client for the endpoint at cfg.BaseURL.
func NewRemoteClient(cfg RemoteConfig) *RemoteClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteTimeout
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 200 * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait)
	client.AddRetryCondition(retryCondition)

	return &RemoteClient{client: client}
}

// SetToken sets the bearer token sent with each request. An empty token
// sends anonymous requests.
func (c *RemoteClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Summarize implements Summarizer. Transport failures are returned as
// *NetworkError and error payloads or non-2xx statuses as *ServiceError.
func (c *RemoteClient) Summarize(ctx context.Context, text string) (Result, error) {
	var out summarizeResponse
	req := c.client.R().
		SetContext(ctx).
		SetBody(summarizeRequest{Text: text}).
		SetResult(&out).
		SetError(&errorPayload{})

	c.mu.RLock()
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	c.mu.RUnlock()

	resp, err := req.Post(summarizePath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{}, ctxErr
		}
		return Result{}, &NetworkError{Err: err}
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		msg := http.StatusText(resp.StatusCode())
		if payload, ok := resp.Error().(*errorPayload); ok && payload != nil && payload.Error != "" {
			msg = payload.Error
		}
		return Result{}, &ServiceError{StatusCode: resp.StatusCode(), Message: msg}
	}

	if out.Summary == "" {
		msg := out.Error
		if msg == "" {
			msg = "empty summary in response"
		}
		return Result{}, &ServiceError{StatusCode: resp.StatusCode(), Message: msg}
	}

	return Result{
		Summary:       out.Summary,
		ModelUsed:     out.ModelUsed,
		SentencesUsed: out.SentencesUsed,
	}, nil
}

// retryCondition retries transport failures and statuses that signal a
// temporarily unavailable service.
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
