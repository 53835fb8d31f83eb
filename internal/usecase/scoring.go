package usecase

import (
	"fmt"

	"github.com/ultrascore/backend/internal/domain"
)

// Category thresholds, checked high to low
const (
	excellentThreshold = 90
	goodThreshold      = 70
	moderateThreshold  = 50
	limitThreshold     = 30
)

const (
	minScore = 0
	maxScore = 100
)

// CalculateUltraScore scores a product from its structured attributes.
// It is pure and deterministic. Callers must reject non-products before
// calling it; a missing or unknown category yields ErrUnscorableCategory.
func CalculateUltraScore(attrs *domain.ProductAttributes) (*domain.UltraScore, error) {
	if attrs == nil || !attrs.IsConsumerProduct {
		return nil, fmt.Errorf("%w: item is not a consumer product", domain.ErrUnscorableCategory)
	}

	switch attrs.Category {
	case domain.CategoryFood, domain.CategoryBeverage:
		return calculateFoodScore(attrs), nil
	case domain.CategoryPersonalCare:
		return calculatePersonalCareScore(attrs), nil
	case "":
		return nil, fmt.Errorf("%w: category missing", domain.ErrUnscorableCategory)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnscorableCategory, attrs.Category)
	}
}

// CategoryForScore maps a final score onto its category bucket
func CategoryForScore(score int) domain.ScoreCategory {
	switch {
	case score >= excellentThreshold:
		return domain.ScoreExcellent
	case score >= goodThreshold:
		return domain.ScoreGood
	case score >= moderateThreshold:
		return domain.ScoreModerate
	case score >= limitThreshold:
		return domain.ScoreLimit
	default:
		return domain.ScoreAvoid
	}
}

// scoreSheet accumulates adjustments on top of a baseline in application order
type scoreSheet struct {
	baseline    int
	running     int
	adjustments []domain.ScoreAdjustment
}

func newScoreSheet(baseline int) *scoreSheet {
	return &scoreSheet{
		baseline:    baseline,
		running:     baseline,
		adjustments: []domain.ScoreAdjustment{},
	}
}

// add applies points to the running score. A zero-point adjustment is only
// listed in the breakdown when keepZero is set.
func (s *scoreSheet) add(reason string, points int, keepZero bool) {
	if points == 0 && !keepZero {
		return
	}
	s.adjustments = append(s.adjustments, domain.ScoreAdjustment{Reason: reason, Points: points})
	s.running += points
}

func (s *scoreSheet) finalScore() int {
	return clampScore(s.running)
}

func (s *scoreSheet) breakdown() domain.ScoreBreakdown {
	return domain.ScoreBreakdown{BaseScore: s.baseline, Adjustments: s.adjustments}
}

func clampScore(score int) int {
	return max(minScore, min(maxScore, score))
}
