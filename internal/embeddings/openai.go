package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/synahire/screening/internal/screenerrors"
)

var (
	// ErrEmptyInput is returned when CreateEmbedding is called with empty input.
	ErrEmptyInput = errors.New("embeddings: input text is empty")
	// ErrInvalidDims is returned when dimensions is not positive.
	ErrInvalidDims = errors.New("embeddings: dimensions must be positive")
)

const defaultDimension = 1536

// OpenAIClient calls the OpenAI embeddings API via the official SDK.
type OpenAIClient struct {
	sdk        openaisdk.Client
	dimensions int
}

// OpenAIOption configures the OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithDimensions sets the requested embedding dimension (must match the
// system-wide dimension D).
func WithDimensions(dim int) OpenAIOption {
	return func(c *OpenAIClient) {
		c.dimensions = dim
	}
}

// NewOpenAIClient creates an OpenAI embeddings client using the official SDK.
// Uses text-embedding-3-small with 1536 dimensions by default.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	client := &OpenAIClient{
		sdk:        openaisdk.NewClient(option.WithAPIKey(apiKey)),
		dimensions: defaultDimension,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

var _ Client = (*OpenAIClient)(nil)

// CreateEmbedding returns the embedding vector for the given text. The
// returned slice length equals the configured dimensions; anything else from
// the provider is rejected so mismatched vectors never enter the system.
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if c.dimensions <= 0 {
		return nil, ErrInvalidDims
	}

	resp, err := c.sdk.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: param.NewOpt(input),
		},
		Model:      openaisdk.EmbeddingModelTextEmbedding3Small,
		Dimensions: param.NewOpt(int64(c.dimensions)),
	})
	if err != nil {
		return nil, screenerrors.NewEmbeddingUnavailableError("openai", err)
	}

	if len(resp.Data) == 0 {
		return nil, screenerrors.NewEmbeddingUnavailableError("openai",
			errors.New("no embedding in response"))
	}

	emb := resp.Data[0].Embedding
	if len(emb) != c.dimensions {
		return nil, fmt.Errorf("openai embedding: %w",
			screenerrors.NewDimensionMismatchError(len(emb), c.dimensions))
	}

	out := make([]float32, len(emb))
	for i := range emb {
		out[i] = float32(emb[i])
	}

	return out, nil
}
