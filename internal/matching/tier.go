package matching

import (
	"fmt"

	"github.com/synahire/screening/internal/models"
	"github.com/synahire/screening/internal/screenerrors"
)

// TierThresholds maps a relevance score to a hiring tier. Boundary values
// belong to the higher tier: score >= Strong is Strong, score >= Optional is
// Optional, anything below is Drop.
type TierThresholds struct {
	Strong   float64
	Optional float64
}

// DefaultTierThresholds are the documented defaults: Strong at 0.75,
// Optional at 0.4.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{Strong: 0.75, Optional: 0.4}
}

// Validate returns *screenerrors.InvalidConfigError unless
// 0 < Optional < Strong <= 1, which guarantees classification is monotonic.
func (t TierThresholds) Validate() error {
	if t.Strong <= 0 || t.Strong > 1 {
		return screenerrors.NewInvalidConfigError(
			fmt.Sprintf("strong threshold must be in (0,1], got %v", t.Strong))
	}

	if t.Optional <= 0 || t.Optional >= t.Strong {
		return screenerrors.NewInvalidConfigError(
			fmt.Sprintf("optional threshold must be in (0,%v), got %v", t.Strong, t.Optional))
	}

	return nil
}

// Classify maps a score to a tier. Pure and deterministic; raising the score
// never lowers the tier.
func (t TierThresholds) Classify(score float64) models.Tier {
	switch {
	case score >= t.Strong:
		return models.TierStrong
	case score >= t.Optional:
		return models.TierOptional
	default:
		return models.TierDrop
	}
}
