package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/embeddings"
	"github.com/synahire/screening/internal/models"
)

type countingEmbedder struct {
	inner embeddings.Client
	calls atomic.Int64
}

func (c *countingEmbedder) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	c.calls.Add(1)

	return c.inner.CreateEmbedding(ctx, input)
}

type mockMatcher struct {
	findFunc func(ctx context.Context, vector []float32, k int, excludeSelfID *uuid.UUID) ([]models.SimilarityMatch, error)
}

func (m *mockMatcher) FindSimilar(
	ctx context.Context, vector []float32, k int, excludeSelfID *uuid.UUID,
) ([]models.SimilarityMatch, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, vector, k, excludeSelfID)
	}

	return nil, nil
}

type mapVectorSource map[uuid.UUID][]float32

func (m mapVectorSource) VectorByCandidateID(_ context.Context, id uuid.UUID) ([]float32, error) {
	if vec, ok := m[id]; ok {
		return vec, nil
	}

	return nil, ErrVectorNotFound
}

func TestSimilarityService_SearchByText(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query is rejected", func(t *testing.T) {
		svc := NewSimilarityService(SimilarityServiceParams{
			Embedder: embeddings.NewMockClient(testDims),
			Matcher:  &mockMatcher{},
		})

		_, err := svc.SearchByText(ctx, "   ", 5)

		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("non-positive top_k is rejected", func(t *testing.T) {
		svc := NewSimilarityService(SimilarityServiceParams{
			Embedder: embeddings.NewMockClient(testDims),
			Matcher:  &mockMatcher{},
		})

		_, err := svc.SearchByText(ctx, "golang backend", 0)

		assert.ErrorIs(t, err, ErrInvalidTopK)
	})

	t.Run("embeds the query and delegates to the matcher", func(t *testing.T) {
		want := []models.SimilarityMatch{{CandidateID: uuid.Must(uuid.NewV7()), Score: 0.9, Rank: 1}}

		matcher := &mockMatcher{
			findFunc: func(_ context.Context, vector []float32, k int, excludeSelfID *uuid.UUID) ([]models.SimilarityMatch, error) {
				assert.Len(t, vector, testDims)
				assert.Equal(t, 5, k)
				assert.Nil(t, excludeSelfID)

				return want, nil
			},
		}
		svc := NewSimilarityService(SimilarityServiceParams{
			Embedder: embeddings.NewMockClient(testDims),
			Matcher:  matcher,
		})

		got, err := svc.SearchByText(ctx, "golang backend", 5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("repeated queries hit the embedding cache", func(t *testing.T) {
		embedder := &countingEmbedder{inner: embeddings.NewMockClient(testDims)}

		cache, err := lru.New[string, []float32](16)
		require.NoError(t, err)

		svc := NewSimilarityService(SimilarityServiceParams{
			Embedder:   embedder,
			Matcher:    &mockMatcher{},
			QueryCache: cache,
		})

		_, err = svc.SearchByText(ctx, "golang backend", 5)
		require.NoError(t, err)

		_, err = svc.SearchByText(ctx, "golang backend", 5)
		require.NoError(t, err)

		assert.Equal(t, int64(1), embedder.calls.Load())
	})
}

func TestSimilarityService_SearchByVector(t *testing.T) {
	ctx := context.Background()

	t.Run("empty vector is rejected", func(t *testing.T) {
		svc := NewSimilarityService(SimilarityServiceParams{Matcher: &mockMatcher{}})

		_, err := svc.SearchByVector(ctx, nil, 5)

		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("does not call the embedding provider", func(t *testing.T) {
		embedder := &countingEmbedder{inner: embeddings.NewMockClient(testDims)}
		svc := NewSimilarityService(SimilarityServiceParams{
			Embedder: embedder,
			Matcher:  &mockMatcher{},
		})

		_, err := svc.SearchByVector(ctx, []float32{1, 0, 0, 0, 0, 0, 0, 0}, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), embedder.calls.Load())
	})
}

func TestSimilarityService_SimilarToCandidate(t *testing.T) {
	ctx := context.Background()
	candidateID := uuid.Must(uuid.NewV7())

	t.Run("unknown candidate vector yields ErrVectorNotFound", func(t *testing.T) {
		svc := NewSimilarityService(SimilarityServiceParams{
			Matcher: &mockMatcher{},
			Vectors: mapVectorSource{},
		})

		_, err := svc.SimilarToCandidate(ctx, candidateID, 5)

		assert.ErrorIs(t, err, ErrVectorNotFound)
	})

	t.Run("excludes the candidate itself", func(t *testing.T) {
		var gotExclude *uuid.UUID

		matcher := &mockMatcher{
			findFunc: func(_ context.Context, _ []float32, _ int, excludeSelfID *uuid.UUID) ([]models.SimilarityMatch, error) {
				gotExclude = excludeSelfID

				return nil, nil
			},
		}
		svc := NewSimilarityService(SimilarityServiceParams{
			Matcher: matcher,
			Vectors: mapVectorSource{candidateID: {1, 0, 0, 0, 0, 0, 0, 0}},
		})

		_, err := svc.SimilarToCandidate(ctx, candidateID, 5)
		require.NoError(t, err)
		require.NotNil(t, gotExclude)
		assert.Equal(t, candidateID, *gotExclude)
	})
}
