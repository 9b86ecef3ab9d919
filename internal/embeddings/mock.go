package embeddings

import (
	"context"
	"crypto/sha256"

	"github.com/synahire/screening/pkg/vectors"
)

// MockClient implements Client for tests and local development without an
// API key. It generates deterministic unit-length embeddings from the input
// text hash, so identical texts always map to identical vectors.
type MockClient struct {
	dimensions int
}

// NewMockClient creates a mock embedding client with the given dimensions.
func NewMockClient(dimensions int) *MockClient {
	if dimensions <= 0 {
		dimensions = defaultDimension
	}

	return &MockClient{dimensions: dimensions}
}

var _ Client = (*MockClient)(nil)

// CreateEmbedding generates a deterministic embedding from the text hash.
func (c *MockClient) CreateEmbedding(_ context.Context, input string) ([]float32, error) {
	if input == "" {
		return nil, ErrEmptyInput
	}

	hash := sha256.Sum256([]byte(input))
	embedding := make([]float32, c.dimensions)

	for i := range embedding {
		// Hash bytes are used cyclically, mapped to [-1, 1].
		b := hash[i%len(hash)]
		embedding[i] = (float32(b) / 127.5) - 1.0
	}

	vectors.NormalizeL2(embedding)

	return embedding, nil
}
