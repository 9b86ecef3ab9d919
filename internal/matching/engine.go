package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/synahire/screening/internal/index"
	"github.com/synahire/screening/internal/models"
)

// Engine orchestrates scoring, tier classification, and the vector index.
// Stateless per call; the index is the only shared mutable state.
type Engine struct {
	index      index.Index
	weights    ScoreWeights
	thresholds TierThresholds
	logger     *slog.Logger
}

// EngineParams configures the Engine. Logger may be nil (slog default).
type EngineParams struct {
	Index      index.Index
	Weights    ScoreWeights
	Thresholds TierThresholds
	Logger     *slog.Logger
}

// NewEngine validates the configuration and creates an Engine. Invalid
// weights or thresholds fail here, before any traffic is served.
func NewEngine(p EngineParams) (*Engine, error) {
	if err := p.Weights.Validate(); err != nil {
		return nil, err
	}

	if err := p.Thresholds.Validate(); err != nil {
		return nil, err
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		index:      p.Index,
		weights:    p.Weights,
		thresholds: p.Thresholds,
		logger:     logger,
	}, nil
}

// ScreenOptions controls side effects of Screen.
type ScreenOptions struct {
	// SkipIndexing prevents the candidate vector from being upserted into
	// the index (e.g. for what-if rescoring of historical candidates).
	SkipIndexing bool

	// FeedbackSignal is the candidate's aggregated interviewer feedback in
	// [0,1]. Only consulted when the feedback weight is configured.
	FeedbackSignal *float64
}

// Screen scores candidate against job and classifies the result. Unless
// opted out, the candidate vector is upserted into the index so later
// similarity queries can find it. Any dimension mismatch propagates
// unchanged and nothing is written.
func (e *Engine) Screen(
	ctx context.Context, candidate models.Candidate, job models.Job, opts ScreenOptions,
) (models.ScoreResult, error) {
	result, err := e.weights.score(candidate, job, opts.FeedbackSignal)
	if err != nil {
		return models.ScoreResult{}, err
	}

	result.Tier = e.thresholds.Classify(result.Score)

	if !opts.SkipIndexing {
		if err := e.index.Upsert(ctx, candidate.ID, candidate.Embedding); err != nil {
			return models.ScoreResult{}, fmt.Errorf("index candidate vector: %w", err)
		}
	}

	e.logger.Debug("candidate screened",
		"candidate_id", candidate.ID,
		"job_id", job.ID,
		"score", result.Score,
		"tier", result.Tier,
	)

	return result, nil
}

// FindSimilar returns up to k historical candidates most similar to the
// query vector, ordered by descending similarity with 1-based ranks.
// excludeSelfID, when non-nil, is never part of the result.
func (e *Engine) FindSimilar(
	ctx context.Context, vector []float32, k int, excludeSelfID *uuid.UUID,
) ([]models.SimilarityMatch, error) {
	var exclude map[uuid.UUID]struct{}
	if excludeSelfID != nil {
		exclude = map[uuid.UUID]struct{}{*excludeSelfID: {}}
	}

	entries, err := e.index.QueryTopK(ctx, vector, k, exclude)
	if err != nil {
		return nil, err
	}

	matches := make([]models.SimilarityMatch, len(entries))
	for i, entry := range entries {
		matches[i] = models.SimilarityMatch{
			CandidateID: entry.ID,
			Score:       entry.Score,
			Rank:        i + 1,
		}
	}

	return matches, nil
}

// UpsertVector inserts or replaces the stored vector for id.
func (e *Engine) UpsertVector(ctx context.Context, id uuid.UUID, vector []float32) error {
	return e.index.Upsert(ctx, id, vector)
}
