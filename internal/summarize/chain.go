package summarize

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Chain tries a primary summarizer and falls back to a secondary one when
// the primary fails for any reason other than empty input or cancellation.
type Chain struct {
	primary  Summarizer
	fallback Summarizer
	logger   *slog.Logger
}

var _ Summarizer = (*Chain)(nil)

// NewChain creates a Chain. A nil fallback selects Extractive.
func NewChain(logger *slog.Logger, primary, fallback Summarizer) *Chain {
	if fallback == nil {
		fallback = Extractive{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{primary: primary, fallback: fallback, logger: logger.With("component", "summarizer_chain")}
}

// Summarize implements Summarizer.
func (c *Chain) Summarize(ctx context.Context, text string) (Result, error) {
	res, err := c.primary.Summarize(ctx, text)
	switch {
	case err == nil && strings.TrimSpace(res.Summary) != "":
		return res, nil
	case errors.Is(err, ErrEmptyText), ctx.Err() != nil:
		return Result{}, err
	}

	c.logger.WarnContext(ctx, "primary summarizer failed, using fallback", "error", err)

	res, err = c.fallback.Summarize(ctx, text)
	if err != nil {
		return Result{}, err
	}
	res.ModelUsed += FallbackSuffix
	return res, nil
}
