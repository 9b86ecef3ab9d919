// Package matching implements the candidate-to-job matching and ranking
// engine: relevance scoring, tier classification, and top-k similarity
// retrieval over a vector index.
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
	"github.com/synahire/screening/pkg/vectors"
)

// weightSumTolerance is the tolerance when checking that weights sum to 1.
const weightSumTolerance = 1e-9

// ScoreWeights blends the scoring signals into one relevance score.
// All weights must be non-negative and sum to 1. Feedback is optional: when
// zero, aggregated interviewer feedback does not contribute.
type ScoreWeights struct {
	Similarity   float64
	SkillOverlap float64
	Enthusiasm   float64
	Feedback     float64
}

// DefaultScoreWeights are the documented defaults: similarity 0.5, skill
// overlap 0.3, enthusiasm 0.2, no feedback signal.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Similarity: 0.5, SkillOverlap: 0.3, Enthusiasm: 0.2}
}

// Validate returns *screenerrors.InvalidConfigError unless all weights are
// non-negative and sum to 1.
func (w ScoreWeights) Validate() error {
	for name, v := range map[string]float64{
		"similarity":    w.Similarity,
		"skill_overlap": w.SkillOverlap,
		"enthusiasm":    w.Enthusiasm,
		"feedback":      w.Feedback,
	} {
		if v < 0 {
			return screenerrors.NewInvalidConfigError(
				fmt.Sprintf("score weight %s must be non-negative, got %v", name, v))
		}
	}

	sum := w.Similarity + w.SkillOverlap + w.Enthusiasm + w.Feedback
	if math.Abs(sum-1) > weightSumTolerance {
		return screenerrors.NewInvalidConfigError(
			fmt.Sprintf("score weights must sum to 1, got %v", sum))
	}

	return nil
}

// neutralFeedback is used when the feedback weight is configured but the
// candidate has no aggregated feedback yet.
const neutralFeedback = 0.5

// score computes the blended relevance score for candidate against job.
// Weights are assumed validated (engine construction).
func (w ScoreWeights) score(candidate models.Candidate, job models.Job, feedback *float64) (models.ScoreResult, error) {
	if len(candidate.Embedding) != len(job.Embedding) {
		return models.ScoreResult{}, screenerrors.NewDimensionMismatchError(
			len(candidate.Embedding), len(job.Embedding))
	}

	sim := vectors.Cosine(candidate.Embedding, job.Embedding)
	simNorm := (sim + 1) / 2

	overlap := skillOverlap(candidate.Skills, job.RequiredSkills)

	total := w.Similarity*simNorm + w.SkillOverlap*overlap + w.Enthusiasm*candidate.Enthusiasm

	result := models.ScoreResult{
		CandidateID:  candidate.ID,
		JobID:        job.ID,
		Similarity:   simNorm,
		SkillOverlap: overlap,
		Enthusiasm:   candidate.Enthusiasm,
	}

	if w.Feedback > 0 {
		signal := neutralFeedback
		if feedback != nil {
			signal = *feedback
		}

		total += w.Feedback * signal
		result.Feedback = &signal
	}

	result.Score = clamp01(total)

	return result, nil
}

// skillOverlap returns |candidate ∩ required| / max(1, |required|), matching
// skills case-insensitively. An empty required set yields 1 (no penalty).
func skillOverlap(candidateSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 1
	}

	have := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	matched := 0

	seen := make(map[string]struct{}, len(requiredSkills))

	for _, s := range requiredSkills {
		key := strings.ToLower(strings.TrimSpace(s))
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		if _, ok := have[key]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(seen))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
