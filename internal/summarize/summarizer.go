package summarize

import (
	"context"
	"strings"
)

// Model names reported in Result.ModelUsed.
const (
	ModelExtractive        = "fallback"
	ModelEmergencyFallback = "_emergency_fallback"

	// FallbackSuffix marks a result produced after the primary backend failed.
	FallbackSuffix = "_after_error"
)

// Result is a produced summary and how it was made.
type Result struct {
	Summary       string `json:"summary"`
	ModelUsed     string `json:"model_used"`
	SentencesUsed int    `json:"sentences_used"`
}

// Degraded reports whether the result stands in for a failed backend.
func (r Result) Degraded() bool {
	return strings.HasSuffix(r.ModelUsed, FallbackSuffix)
}

// Summarizer produces a summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (Result, error)
}

// Func adapts a function to the Summarizer interface.
type Func func(ctx context.Context, text string) (Result, error)

// Summarize implements Summarizer.
func (f Func) Summarize(ctx context.Context, text string) (Result, error) {
	return f(ctx, text)
}
