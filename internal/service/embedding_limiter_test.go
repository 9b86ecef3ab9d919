package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/embeddings"
)

type deadlineCapturingEmbedder struct {
	hadDeadline bool
}

func (d *deadlineCapturingEmbedder) CreateEmbedding(ctx context.Context, _ string) ([]float32, error) {
	_, d.hadDeadline = ctx.Deadline()

	return []float32{1, 0}, nil
}

func TestRateLimitedEmbeddingClient(t *testing.T) {
	ctx := context.Background()

	t.Run("passes calls through to the wrapped client", func(t *testing.T) {
		client := NewRateLimitedEmbeddingClient(embeddings.NewMockClient(testDims), 0, 0)

		embedding, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)
		assert.Len(t, embedding, testDims)
	})

	t.Run("applies the per-call timeout", func(t *testing.T) {
		inner := &deadlineCapturingEmbedder{}
		client := NewRateLimitedEmbeddingClient(inner, 0, time.Second)

		_, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)
		assert.True(t, inner.hadDeadline)
	})

	t.Run("no timeout leaves the context unbounded", func(t *testing.T) {
		inner := &deadlineCapturingEmbedder{}
		client := NewRateLimitedEmbeddingClient(inner, 0, 0)

		_, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)
		assert.False(t, inner.hadDeadline)
	})

	t.Run("cancelled context aborts the limiter wait", func(t *testing.T) {
		client := NewRateLimitedEmbeddingClient(embeddings.NewMockClient(testDims), 0.001, 0)

		// First call consumes the single burst token.
		_, err := client.CreateEmbedding(ctx, "first")
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = client.CreateEmbedding(cancelled, "second")

		assert.Error(t, err)
	})
}
