package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/pkg/vectors"
)

func TestMockClient_CreateEmbedding(t *testing.T) {
	ctx := context.Background()

	t.Run("deterministic for identical input", func(t *testing.T) {
		client := NewMockClient(64)

		first, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)

		second, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("different input yields different vectors", func(t *testing.T) {
		client := NewMockClient(64)

		first, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)

		second, err := client.CreateEmbedding(ctx, "pastry chef")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("output is unit length with the requested dimensions", func(t *testing.T) {
		client := NewMockClient(32)

		embedding, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)
		require.Len(t, embedding, 32)

		assert.InDelta(t, 1.0, vectors.Cosine(embedding, embedding), 1e-5)
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		client := NewMockClient(32)

		_, err := client.CreateEmbedding(ctx, "")

		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("non-positive dimensions fall back to the default", func(t *testing.T) {
		client := NewMockClient(0)

		embedding, err := client.CreateEmbedding(ctx, "senior go engineer")
		require.NoError(t, err)
		assert.Len(t, embedding, defaultDimension)
	})
}
