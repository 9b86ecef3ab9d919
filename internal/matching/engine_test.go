package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/index"
	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

func newTestEngine(t *testing.T, idx index.Index) *Engine {
	t.Helper()

	engine, err := NewEngine(EngineParams{
		Index:      idx,
		Weights:    DefaultScoreWeights(),
		Thresholds: DefaultTierThresholds(),
	})
	require.NoError(t, err)

	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("invalid weights fail at construction", func(t *testing.T) {
		_, err := NewEngine(EngineParams{
			Index:      index.NewMemoryIndex(2),
			Weights:    ScoreWeights{Similarity: 1, SkillOverlap: 1},
			Thresholds: DefaultTierThresholds(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrInvalidConfig)
	})

	t.Run("invalid thresholds fail at construction", func(t *testing.T) {
		_, err := NewEngine(EngineParams{
			Index:      index.NewMemoryIndex(2),
			Weights:    DefaultScoreWeights(),
			Thresholds: TierThresholds{Strong: 0.4, Optional: 0.75},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrInvalidConfig)
	})
}

func TestEngine_Screen(t *testing.T) {
	ctx := context.Background()

	job := models.Job{
		ID:             uuid.Must(uuid.NewV7()),
		RequiredSkills: []string{"go"},
		Embedding:      []float32{1, 0},
	}

	t.Run("scores, classifies, and indexes the candidate", func(t *testing.T) {
		idx := index.NewMemoryIndex(2)
		engine := newTestEngine(t, idx)

		candidate := models.Candidate{
			ID:         uuid.Must(uuid.NewV7()),
			Skills:     []string{"go"},
			Enthusiasm: 1,
			Embedding:  []float32{1, 0},
		}

		result, err := engine.Screen(ctx, candidate, job, ScreenOptions{})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, result.Score, 1e-9)
		assert.Equal(t, models.TierStrong, result.Tier)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("skip indexing leaves the index untouched", func(t *testing.T) {
		idx := index.NewMemoryIndex(2)
		engine := newTestEngine(t, idx)

		candidate := models.Candidate{ID: uuid.Must(uuid.NewV7()), Embedding: []float32{1, 0}}

		_, err := engine.Screen(ctx, candidate, job, ScreenOptions{SkipIndexing: true})
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("dimension mismatch propagates and nothing is indexed", func(t *testing.T) {
		idx := index.NewMemoryIndex(2)
		engine := newTestEngine(t, idx)

		candidate := models.Candidate{ID: uuid.Must(uuid.NewV7()), Embedding: []float32{1, 0, 0}}

		_, err := engine.Screen(ctx, candidate, job, ScreenOptions{})

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrDimensionMismatch)
		assert.Equal(t, 0, idx.Len())
	})

	t.Run("index dimension mismatch propagates", func(t *testing.T) {
		// Score succeeds (candidate and job are both 3-dim) but the index
		// expects 2-dim vectors.
		idx := index.NewMemoryIndex(2)
		engine := newTestEngine(t, idx)

		wideJob := models.Job{ID: job.ID, Embedding: []float32{1, 0, 0}}
		candidate := models.Candidate{ID: uuid.Must(uuid.NewV7()), Embedding: []float32{1, 0, 0}}

		_, err := engine.Screen(ctx, candidate, wideJob, ScreenOptions{})

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrDimensionMismatch)
	})
}

func TestEngine_FindSimilar(t *testing.T) {
	ctx := context.Background()
	idx := index.NewMemoryIndex(2)
	engine := newTestEngine(t, idx)

	self := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	require.NoError(t, idx.Upsert(ctx, self, []float32{1, 0}))
	require.NoError(t, idx.Upsert(ctx, other, []float32{1, 1}))

	t.Run("attaches 1-based ranks", func(t *testing.T) {
		matches, err := engine.FindSimilar(ctx, []float32{1, 0}, 10, nil)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, 1, matches[0].Rank)
		assert.Equal(t, 2, matches[1].Rank)
		assert.Equal(t, self, matches[0].CandidateID)
	})

	t.Run("excludes self", func(t *testing.T) {
		matches, err := engine.FindSimilar(ctx, []float32{1, 0}, 10, &self)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, other, matches[0].CandidateID)
		assert.Equal(t, 1, matches[0].Rank)
	})

	t.Run("query dimension mismatch propagates", func(t *testing.T) {
		_, err := engine.FindSimilar(ctx, []float32{1, 0, 0}, 10, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrDimensionMismatch)
	})
}
