package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ultrascore/backend/internal/domain"
)

// QuotaServiceConfig holds configuration for the quota service
type QuotaServiceConfig struct {
	Limit  int
	Window time.Duration
}

// QuotaService enforces a per-client request quota. Store failures never
// block a request; they are logged and the request is allowed through.
//
// The limit is best-effort: Allow and Record are separate store calls, so
// concurrent requests from one client near the limit can all pass.
type QuotaService struct {
	store  domain.QuotaStore
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewQuotaService creates a quota service. A nil store or a non-positive
// limit disables quota enforcement.
func NewQuotaService(store domain.QuotaStore, config QuotaServiceConfig, logger *zap.Logger) *QuotaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	window := config.Window
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &QuotaService{
		store:  store,
		limit:  config.Limit,
		window: window,
		logger: logger,
	}
}

// Enabled reports whether the quota is enforced at all
func (s *QuotaService) Enabled() bool {
	return s != nil && s.store != nil && s.limit > 0
}

// Allow returns ErrQuotaExceeded if key has used up its quota
func (s *QuotaService) Allow(ctx context.Context, key string) error {
	if !s.Enabled() {
		return nil
	}

	used, err := s.store.Count(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrQuotaMiss) {
			s.logger.Warn("quota lookup failed, allowing request", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	if used >= s.limit {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// Record counts one successful request against key
func (s *QuotaService) Record(ctx context.Context, key string) {
	if !s.Enabled() {
		return
	}
	if _, err := s.store.Increment(ctx, key, s.window); err != nil {
		s.logger.Warn("quota increment failed", zap.String("key", key), zap.Error(err))
	}
}
