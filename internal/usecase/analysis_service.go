package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ultrascore/backend/internal/domain"
)

// AnalysisState is a step of one product analysis
type AnalysisState string

const (
	StateStart              AnalysisState = "start"
	StateAttributesObtained AnalysisState = "attributes_obtained"
	StateRejected           AnalysisState = "rejected"
	StateScored             AnalysisState = "scored"
	StateSkippedOverride    AnalysisState = "skipped_override"
	StateOverrideChecked    AnalysisState = "override_checked"
	StateDone               AnalysisState = "done"
	StateFailed             AnalysisState = "failed"
)

// AnalysisService runs the full analysis of one product:
// extract attributes -> reject non-products -> score -> safety check -> result
type AnalysisService struct {
	extractor domain.AttributeExtractor
	evaluator *SafetyOverrideEvaluator
	logger    *zap.Logger
}

// NewAnalysisService creates a new analysis service with its collaborators
func NewAnalysisService(
	extractor domain.AttributeExtractor,
	verifier domain.SafetyVerifier,
	logger *zap.Logger,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		extractor: extractor,
		evaluator: NewSafetyOverrideEvaluator(verifier, logger),
		logger:    logger,
	}
}

// Analyze produces exactly one score for the request or a typed error.
// The two collaborator calls are strictly sequential.
func (s *AnalysisService) Analyze(ctx context.Context, request *domain.AnalysisRequest) (*domain.UltraScore, error) {
	run := s.newRun(request)
	score, err := run.execute(ctx)

	s.logger.Debug("analysis finished",
		zap.String("term", run.term()),
		zap.Stringers("states", run.trace),
		zap.Error(err))
	return score, err
}

func (s *AnalysisService) newRun(request *domain.AnalysisRequest) *analysisRun {
	return &analysisRun{service: s, request: request, state: StateStart, trace: []AnalysisState{StateStart}}
}

// analysisRun holds the transient state of one Analyze call
type analysisRun struct {
	service *AnalysisService
	request *domain.AnalysisRequest
	state   AnalysisState
	trace   []AnalysisState

	attrs   *domain.ProductAttributes
	initial *domain.UltraScore
	result  *domain.UltraScore
	err     error
}

func (r *analysisRun) execute(ctx context.Context) (*domain.UltraScore, error) {
	for r.state != StateDone && r.state != StateFailed && r.state != StateRejected {
		r.step(ctx)
	}
	if r.state == StateDone {
		return r.result, nil
	}
	return nil, r.err
}

func (r *analysisRun) step(ctx context.Context) {
	switch r.state {
	case StateStart:
		r.obtainAttributes(ctx)
	case StateAttributesObtained:
		r.score()
	case StateScored:
		if NeedsSafetyCheck(r.initial) {
			r.checkSafety(ctx)
		} else {
			r.result = r.initial
			r.transition(StateSkippedOverride)
		}
	case StateSkippedOverride, StateOverrideChecked:
		r.transition(StateDone)
	default:
		r.fail(fmt.Errorf("unexpected analysis state %q", r.state))
	}
}

func (r *analysisRun) obtainAttributes(ctx context.Context) {
	if r.request == nil || strings.TrimSpace(r.request.Term) == "" {
		r.fail(domain.ErrInvalidRequest)
		return
	}
	if r.service.extractor == nil {
		r.fail(fmt.Errorf("%w: no attribute extractor", domain.ErrConfiguration))
		return
	}

	attrs, err := r.service.extractor.ExtractAttributes(ctx, r.request)
	if err != nil {
		r.fail(asCollaboratorFailure(err))
		return
	}
	if attrs == nil {
		r.fail(fmt.Errorf("%w: empty attributes", domain.ErrCollaboratorFailure))
		return
	}
	r.attrs = attrs
	r.transition(StateAttributesObtained)
}

func (r *analysisRun) score() {
	if !r.attrs.IsConsumerProduct {
		r.err = domain.NewRejectionError(r.attrs.RejectionReason)
		r.transition(StateRejected)
		return
	}

	initial, err := CalculateUltraScore(r.attrs)
	if err != nil {
		r.fail(err)
		return
	}
	r.initial = initial
	r.transition(StateScored)
}

func (r *analysisRun) checkSafety(ctx context.Context) {
	result, _, err := r.service.evaluator.Evaluate(ctx, r.attrs.Name(), r.initial)
	if err != nil {
		r.fail(asCollaboratorFailure(err))
		return
	}
	r.result = result
	r.transition(StateOverrideChecked)
}

func (r *analysisRun) transition(next AnalysisState) {
	r.state = next
	r.trace = append(r.trace, next)
}

func (r *analysisRun) fail(err error) {
	r.err = err
	r.transition(StateFailed)
}

func (r *analysisRun) term() string {
	if r.request == nil {
		return ""
	}
	return r.request.Term
}

func (s AnalysisState) String() string {
	return string(s)
}

// asCollaboratorFailure classifies an unclassified collaborator error
func asCollaboratorFailure(err error) error {
	if errors.Is(err, domain.ErrCollaboratorFailure) ||
		errors.Is(err, domain.ErrConfiguration) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCollaboratorFailure, err)
}
