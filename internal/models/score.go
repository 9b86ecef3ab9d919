package models

import (
	"github.com/google/uuid"
)

// Tier is the discrete hiring-recommendation bucket derived from a score,
// ordered by preference: Strong > Optional > Drop.
type Tier string

// Tier values. Rank() defines the ordering used by monotonicity checks.
const (
	TierStrong   Tier = "strong"
	TierOptional Tier = "optional"
	TierDrop     Tier = "drop"
)

// Rank returns the preference rank of the tier: higher is better.
func (t Tier) Rank() int {
	switch t {
	case TierStrong:
		return 2
	case TierOptional:
		return 1
	case TierDrop:
		return 0
	default:
		return -1
	}
}

// ScoreResult is the outcome of scoring one candidate against one job.
// Derived value, recomputed on demand; never the source of truth.
type ScoreResult struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`
	Score       float64   `json:"score"` // 0..1
	Tier        Tier      `json:"tier"`

	// Contributing sub-scores, each in 0..1.
	Similarity   float64  `json:"similarity"`    // cosine remapped to 0..1
	SkillOverlap float64  `json:"skill_overlap"` // matched / required
	Enthusiasm   float64  `json:"enthusiasm"`
	Feedback     *float64 `json:"feedback,omitempty"` // set only when the feedback signal is configured
}

// SimilarityMatch is one hit from a top-k similarity query.
// Rank is 1-indexed and unique per query; ties are broken deterministically
// by insertion order.
type SimilarityMatch struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Score       float64   `json:"score"` // cosine similarity, -1..1
	Rank        int       `json:"rank"`
}
