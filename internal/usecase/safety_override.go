package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ultrascore/backend/internal/domain"
)

// SafetyCheckThreshold is the lowest score worth a safety verdict.
// Anything below it is already low enough that an override cannot matter.
const SafetyCheckThreshold = 20

const (
	safetyOverridePrefix  = "Safety Override: "
	safetyOverridePoints  = -100
	defaultOverrideReason = "Flagged by safety review"
)

// SafetyOverrideEvaluator decides when to ask for a safety verdict and
// applies the verdict to an initial score
type SafetyOverrideEvaluator struct {
	verifier domain.SafetyVerifier
	logger   *zap.Logger
}

// NewSafetyOverrideEvaluator creates an evaluator backed by the given verifier
func NewSafetyOverrideEvaluator(verifier domain.SafetyVerifier, logger *zap.Logger) *SafetyOverrideEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SafetyOverrideEvaluator{verifier: verifier, logger: logger}
}

// NeedsSafetyCheck reports whether a score is high enough to be worth a verdict
func NeedsSafetyCheck(score *domain.UltraScore) bool {
	return score.FinalScore >= SafetyCheckThreshold
}

// Evaluate returns the initial score untouched when it is below the
// threshold or judged plausible, and the overridden score otherwise.
// The boolean reports whether the verifier was consulted.
func (e *SafetyOverrideEvaluator) Evaluate(
	ctx context.Context,
	productName string,
	initial *domain.UltraScore,
) (*domain.UltraScore, bool, error) {
	if !NeedsSafetyCheck(initial) {
		return initial, false, nil
	}
	if e.verifier == nil {
		return nil, false, fmt.Errorf("%w: no safety verifier", domain.ErrConfiguration)
	}

	verdict, err := e.verifier.VerifySafety(ctx, productName, initial.FinalScore)
	if err != nil {
		return nil, true, err
	}
	if verdict == nil {
		return nil, true, fmt.Errorf("%w: empty safety verdict", domain.ErrCollaboratorFailure)
	}

	result := ApplySafetyVerdict(initial, verdict)
	if result.Overridden() {
		e.logger.Warn("safety override applied",
			zap.String("product", productName),
			zap.Int("initialScore", initial.FinalScore),
			zap.Int("correctedScore", result.FinalScore),
			zap.String("reason", *result.OverrideReason))
	}
	return result, true, nil
}

// ApplySafetyVerdict merges a verdict into an initial score. A misleading
// verdict replaces the score, forces Avoid, drops suggestions and collapses
// the breakdown into a single override entry; every other field carries over.
func ApplySafetyVerdict(initial *domain.UltraScore, verdict *domain.SafetyVerdict) *domain.UltraScore {
	if verdict == nil || !verdict.IsMisleading {
		return initial
	}

	corrected := 0
	if verdict.CorrectedScore != nil {
		corrected = clampScore(*verdict.CorrectedScore)
	}
	reason := defaultOverrideReason
	if verdict.Reason != nil && *verdict.Reason != "" {
		reason = *verdict.Reason
	}

	overridden := *initial
	overridden.FinalScore = corrected
	overridden.Category = domain.ScoreAvoid
	overridden.HealthierAddon = nil
	overridden.TopInCategory = nil
	overridden.OverrideReason = &reason
	overridden.Breakdown = domain.ScoreBreakdown{
		BaseScore: initial.Breakdown.BaseScore,
		Adjustments: []domain.ScoreAdjustment{
			{Reason: safetyOverridePrefix + reason, Points: safetyOverridePoints},
		},
	}
	return &overridden
}
