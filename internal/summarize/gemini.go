package summarize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"
)

const defaultPrompt = `You are a study assistant. Summarize the following notes for a student
preparing for an exam. Keep the key facts, definitions and relationships, use
plain sentences, and stay under {{.TargetSentences}} sentences.

Notes:
{{.Text}}
`

// contentGenerator is the subset of the genai models service used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures a Gemini summarizer.
type GeminiConfig struct {
	APIKey            string
	ModelName         string
	MaxRetries        int
	RetryDelaySeconds int
}

// Gemini summarizes text with a Gemini model.
type Gemini struct {
	logger    *slog.Logger
	config    GeminiConfig
	prompt    *template.Template
	generator contentGenerator
	sleep     func(ctx context.Context, d time.Duration) error
}

var _ Summarizer = (*Gemini)(nil)

type promptData struct {
	Text            string
	TargetSentences int
}

// NewGemini creates a Gemini summarizer backed by the Gemini API.
func NewGemini(ctx context.Context, logger *slog.Logger, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newGemini(logger, cfg, client.Models)
}

func newGemini(logger *slog.Logger, cfg GeminiConfig, generator contentGenerator) (*Gemini, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelaySeconds < 1 {
		cfg.RetryDelaySeconds = 2
	}

	prompt, err := template.New("summary").Parse(defaultPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	return &Gemini{
		logger:    logger.With("component", "gemini_summarizer"),
		config:    cfg,
		prompt:    prompt,
		generator: generator,
		sleep:     sleepContext,
	}, nil
}

// Summarize implements Summarizer.
func (g *Gemini) Summarize(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyText
	}

	target := SummaryLength(text)
	var buf bytes.Buffer
	if err := g.prompt.Execute(&buf, promptData{Text: text, TargetSentences: target}); err != nil {
		return Result{}, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	summary, err := g.generateWithRetry(ctx, buf.String())
	if err != nil {
		return Result{}, err
	}

	return Result{
		Summary:       summary,
		ModelUsed:     g.config.ModelName,
		SentencesUsed: target,
	}, nil
}

// generateWithRetry calls the model with exponential backoff and jitter.
// Blocked or unusable responses are permanent and returned immediately.
func (g *Gemini) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "Making Gemini API call",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		resp, err := g.generator.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt), nil)
		if err == nil {
			text, perr := responseText(resp)
			if perr != nil {
				g.logger.WarnContext(ctx, "Permanent Gemini error, not retrying", "error", perr)
				return "", perr
			}
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %v", ErrTransientFailure, ctxErr)
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, maxRetries, err)
		}

		backoff := float64(g.config.RetryDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))
		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", ErrTransientFailure, err)
		}
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", ErrContentBlocked)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", ErrInvalidResponse)
	}
	return text, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
