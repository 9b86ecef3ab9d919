package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/synahire/screening/internal/embeddings"
)

// RateLimitedEmbeddingClient wraps an embeddings.Client with a token-bucket
// rate limit and a per-call timeout. The embedding call is the only
// potentially slow step in screening and is always made before any index
// lock is taken; this wrapper is the integration-boundary timeout the core
// itself does not impose.
type RateLimitedEmbeddingClient struct {
	inner   embeddings.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewRateLimitedEmbeddingClient wraps inner. callsPerSecond <= 0 disables
// rate limiting; timeout <= 0 disables the per-call deadline.
func NewRateLimitedEmbeddingClient(
	inner embeddings.Client, callsPerSecond float64, timeout time.Duration,
) *RateLimitedEmbeddingClient {
	var limiter *rate.Limiter
	if callsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(callsPerSecond), 1)
	}

	return &RateLimitedEmbeddingClient{inner: inner, limiter: limiter, timeout: timeout}
}

var _ embeddings.Client = (*RateLimitedEmbeddingClient)(nil)

// CreateEmbedding waits for the rate limiter, then calls the wrapped client
// with the configured timeout applied to ctx.
func (c *RateLimitedEmbeddingClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	return c.inner.CreateEmbedding(ctx, input)
}
