// Package embeddings provides clients that turn free text into fixed-dimension
// embedding vectors.
package embeddings

import "context"

// Client generates embedding vectors for text. Implemented by
// provider-specific clients (e.g. OpenAI) and by the deterministic mock.
// Provider failures surface as *screenerrors.EmbeddingUnavailableError; the
// caller decides on retry policy.
type Client interface {
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)
}
