package summarize

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes successful results of another Summarizer, keyed by the
// SHA-256 of the text. Failures and degraded fallback results are not
// cached, so the primary backend is retried once it recovers.
type Cached struct {
	next  Summarizer
	cache *lru.Cache[[sha256.Size]byte, Result]
}

var _ Summarizer = (*Cached)(nil)

// NewCached wraps next with an LRU cache of the given size.
func NewCached(next Summarizer, size int) (*Cached, error) {
	if next == nil {
		return nil, errors.New("summarizer cannot be nil")
	}
	cache, err := lru.New[[sha256.Size]byte, Result](size)
	if err != nil {
		return nil, fmt.Errorf("%w: cache size: %v", ErrInvalidConfig, err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Summarize implements Summarizer.
func (c *Cached) Summarize(ctx context.Context, text string) (Result, error) {
	key := sha256.Sum256([]byte(text))
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}

	res, err := c.next.Summarize(ctx, text)
	if err != nil {
		return Result{}, err
	}
	if !res.Degraded() {
		c.cache.Add(key, res)
	}
	return res, nil
}

// Len returns the number of cached results.
func (c *Cached) Len() int {
	return c.cache.Len()
}
