package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

func TestScoreWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights ScoreWeights
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			weights: DefaultScoreWeights(),
		},
		{
			name:    "feedback weight included in sum",
			weights: ScoreWeights{Similarity: 0.4, SkillOverlap: 0.3, Enthusiasm: 0.2, Feedback: 0.1},
		},
		{
			name:    "sum above one",
			weights: ScoreWeights{Similarity: 0.6, SkillOverlap: 0.3, Enthusiasm: 0.2},
			wantErr: true,
		},
		{
			name:    "sum below one",
			weights: ScoreWeights{Similarity: 0.5, SkillOverlap: 0.3, Enthusiasm: 0.1},
			wantErr: true,
		},
		{
			name:    "negative weight",
			weights: ScoreWeights{Similarity: 1.2, SkillOverlap: -0.2, Enthusiasm: 0},
			wantErr: true,
		},
		{
			name:    "all zero",
			weights: ScoreWeights{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, screenerrors.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScoreWeights_score(t *testing.T) {
	weights := DefaultScoreWeights()

	job := models.Job{
		ID:             uuid.Must(uuid.NewV7()),
		RequiredSkills: []string{"Go", "PostgreSQL", "Docker", "Kubernetes"},
		Embedding:      []float32{1, 0},
	}

	t.Run("blends similarity, overlap, and enthusiasm", func(t *testing.T) {
		candidate := models.Candidate{
			ID:         uuid.Must(uuid.NewV7()),
			Skills:     []string{"go", "postgresql", "docker"},
			Enthusiasm: 0.9,
			Embedding:  []float32{1, 0}, // cosine 1 -> simNorm 1
		}

		result, err := weights.score(candidate, job, nil)
		require.NoError(t, err)

		// 0.5*1.0 + 0.3*0.75 + 0.2*0.9 = 0.905
		assert.InDelta(t, 1.0, result.Similarity, 1e-9)
		assert.InDelta(t, 0.75, result.SkillOverlap, 1e-9)
		assert.InDelta(t, 0.905, result.Score, 1e-9)
		assert.Nil(t, result.Feedback)
	})

	t.Run("opposite embedding maps to zero similarity", func(t *testing.T) {
		candidate := models.Candidate{
			ID:        uuid.Must(uuid.NewV7()),
			Embedding: []float32{-1, 0},
		}

		result, err := weights.score(candidate, job, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, result.Similarity, 1e-9)
	})

	t.Run("skill matching is case-insensitive", func(t *testing.T) {
		candidate := models.Candidate{
			ID:        uuid.Must(uuid.NewV7()),
			Skills:    []string{"GO", "postgresql", "DOCKER", "kubernetes"},
			Embedding: []float32{1, 0},
		}

		result, err := weights.score(candidate, job, nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, result.SkillOverlap, 1e-9)
	})

	t.Run("empty required skills yields full overlap", func(t *testing.T) {
		noSkillsJob := models.Job{ID: job.ID, Embedding: []float32{1, 0}}
		candidate := models.Candidate{ID: uuid.Must(uuid.NewV7()), Embedding: []float32{1, 0}}

		result, err := weights.score(candidate, noSkillsJob, nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, result.SkillOverlap, 1e-9)
	})

	t.Run("score is clamped to at most 1", func(t *testing.T) {
		candidate := models.Candidate{
			ID:         uuid.Must(uuid.NewV7()),
			Skills:     job.RequiredSkills,
			Enthusiasm: 1,
			Embedding:  []float32{1, 0},
		}

		result, err := weights.score(candidate, job, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.Score, 1.0)
		assert.InDelta(t, 1.0, result.Score, 1e-9)
	})

	t.Run("dimension mismatch propagates", func(t *testing.T) {
		candidate := models.Candidate{
			ID:        uuid.Must(uuid.NewV7()),
			Embedding: []float32{1, 0, 0},
		}

		_, err := weights.score(candidate, job, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, screenerrors.ErrDimensionMismatch)
	})
}

func TestScoreWeights_score_feedback(t *testing.T) {
	weights := ScoreWeights{Similarity: 0.4, SkillOverlap: 0.3, Enthusiasm: 0.2, Feedback: 0.1}

	job := models.Job{ID: uuid.Must(uuid.NewV7()), Embedding: []float32{1, 0}}
	candidate := models.Candidate{ID: uuid.Must(uuid.NewV7()), Embedding: []float32{1, 0}}

	t.Run("uses the provided signal", func(t *testing.T) {
		signal := 0.8

		result, err := weights.score(candidate, job, &signal)
		require.NoError(t, err)
		require.NotNil(t, result.Feedback)
		assert.InDelta(t, 0.8, *result.Feedback, 1e-9)
		// 0.4*1 + 0.3*1 + 0.2*0 + 0.1*0.8 = 0.78
		assert.InDelta(t, 0.78, result.Score, 1e-9)
	})

	t.Run("neutral signal when candidate has no feedback", func(t *testing.T) {
		result, err := weights.score(candidate, job, nil)
		require.NoError(t, err)
		require.NotNil(t, result.Feedback)
		assert.InDelta(t, neutralFeedback, *result.Feedback, 1e-9)
	})

	t.Run("zero feedback weight ignores the signal", func(t *testing.T) {
		signal := 0.9

		result, err := DefaultScoreWeights().score(candidate, job, &signal)
		require.NoError(t, err)
		assert.Nil(t, result.Feedback)
	})
}

func TestSkillOverlap(t *testing.T) {
	tests := []struct {
		name      string
		candidate []string
		required  []string
		want      float64
	}{
		{"no candidate skills", nil, []string{"go"}, 0},
		{"partial", []string{"go"}, []string{"go", "rust"}, 0.5},
		{"full", []string{"go", "rust"}, []string{"go", "rust"}, 1},
		{"duplicate required counted once", []string{"go"}, []string{"go", "Go"}, 1},
		{"whitespace trimmed", []string{" go "}, []string{"go"}, 1},
		{"empty required", []string{"go"}, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, skillOverlap(tt.candidate, tt.required), 1e-9)
		})
	}
}
