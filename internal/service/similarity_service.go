package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/synahire/screening/internal/embeddings"
	"github.com/synahire/screening/internal/index"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/observability"
)

const queryEmbeddingCacheName = "similarity_query_embedding"

// Sentinel errors for similarity search (used by handlers for status mapping).
var (
	ErrEmptyQuery     = errors.New("query is required and must be non-empty")
	ErrVectorNotFound = index.ErrVectorNotFound
	ErrInvalidTopK    = errors.New("top_k must be positive")
)

// Matcher is the subset of the matching engine needed for similarity search.
type Matcher interface {
	FindSimilar(ctx context.Context, vector []float32, k int, excludeSelfID *uuid.UUID) ([]models.SimilarityMatch, error)
}

// SimilarityService answers "find candidates like this" queries: free-text
// queries are embedded (with an LRU cache and singleflight so concurrent
// identical queries share one provider call); candidate queries reuse the
// stored vector.
type SimilarityService struct {
	embedder   embeddings.Client
	matcher    Matcher
	vectors    VectorSource
	queryCache *lru.Cache[string, []float32]
	loadGroup  singleflight.Group
	metrics    observability.SearchMetrics
	logger     *slog.Logger
}

// SimilarityServiceParams configures SimilarityService. QueryCache and
// Metrics may be nil (no caching / metrics disabled).
type SimilarityServiceParams struct {
	Embedder   embeddings.Client
	Matcher    Matcher
	Vectors    VectorSource
	QueryCache *lru.Cache[string, []float32]
	Metrics    observability.SearchMetrics
	Logger     *slog.Logger
}

// NewSimilarityService creates a SimilarityService.
func NewSimilarityService(p SimilarityServiceParams) *SimilarityService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SimilarityService{
		embedder:   p.Embedder,
		matcher:    p.Matcher,
		vectors:    p.Vectors,
		queryCache: p.QueryCache,
		metrics:    p.Metrics,
		logger:     logger,
	}
}

// SearchByText embeds the query text and returns the top-k most similar
// stored candidates.
func (s *SimilarityService) SearchByText(ctx context.Context, query string, topK int) ([]models.SimilarityMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	start := time.Now()

	var (
		embedding []float32
		err       error
	)

	if s.queryCache != nil {
		embedding, err = s.queryEmbeddingCached(ctx, query)
	} else {
		embedding, err = s.embedder.CreateEmbedding(ctx, query)
	}

	if err != nil {
		s.logger.Error("similarity search: create embedding failed", "error", err)

		return nil, fmt.Errorf("create embedding: %w", err)
	}

	matches, err := s.matcher.FindSimilar(ctx, embedding, topK, nil)
	if err != nil {
		s.logger.Error("similarity search: query failed", "error", err)

		return nil, fmt.Errorf("find similar: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSearch(ctx, time.Since(start))
	}

	return matches, nil
}

// SearchByVector returns the top-k stored candidates most similar to the
// given raw query vector. The embedding provider is not called.
func (s *SimilarityService) SearchByVector(ctx context.Context, vector []float32, topK int) ([]models.SimilarityMatch, error) {
	if len(vector) == 0 {
		return nil, ErrEmptyQuery
	}

	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	start := time.Now()

	matches, err := s.matcher.FindSimilar(ctx, vector, topK, nil)
	if err != nil {
		s.logger.Error("similarity search: query failed", "error", err)

		return nil, fmt.Errorf("find similar: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSearch(ctx, time.Since(start))
	}

	return matches, nil
}

// SimilarToCandidate returns the top-k stored candidates most similar to the
// given one, excluding the candidate itself. Returns ErrVectorNotFound when
// the candidate has not been indexed.
func (s *SimilarityService) SimilarToCandidate(
	ctx context.Context, candidateID uuid.UUID, topK int,
) ([]models.SimilarityMatch, error) {
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	start := time.Now()

	vector, err := s.vectors.VectorByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, index.ErrVectorNotFound) {
			s.logger.Debug("similar candidates: no vector for candidate", "candidate_id", candidateID)
			//nolint:wrapcheck // return as-is so handler can map to 404
			return nil, err
		}

		s.logger.Error("similar candidates: get vector failed", "error", err, "candidate_id", candidateID)

		return nil, fmt.Errorf("get candidate vector: %w", err)
	}

	matches, err := s.matcher.FindSimilar(ctx, vector, topK, &candidateID)
	if err != nil {
		s.logger.Error("similar candidates: query failed", "error", err, "candidate_id", candidateID)

		return nil, fmt.Errorf("find similar: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSearch(ctx, time.Since(start))
	}

	return matches, nil
}

func (s *SimilarityService) queryEmbeddingCached(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := s.queryCache.Get(query); ok {
		if s.metrics != nil {
			s.metrics.RecordCacheHit(ctx, queryEmbeddingCacheName)
		}

		return vec, nil
	}

	val, err, _ := s.loadGroup.Do(query, func() (any, error) {
		vec, loadErr := s.embedder.CreateEmbedding(ctx, query)
		if loadErr != nil {
			return nil, fmt.Errorf("create embedding: %w", loadErr)
		}

		s.queryCache.Add(query, vec)

		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCacheMiss(ctx, queryEmbeddingCacheName)
	}

	return val.([]float32), nil
}
