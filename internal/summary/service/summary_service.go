package service

import (
	"context"

	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/telemetry"
)

type Repository interface {
	Report(ctx context.Context) (*domain.Summary, error)
}

type Cache interface {
	Get(ctx context.Context) (*domain.Summary, error)
	Set(ctx context.Context, s *domain.Summary) error
}

type SummaryService struct {
	repo    Repository
	cache   Cache
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewSummaryService builds the service. cache may be nil.
func NewSummaryService(repo Repository, cache Cache, logger *zap.Logger, metrics *telemetry.Metrics) *SummaryService {
	return &SummaryService{repo: repo, cache: cache, logger: logger, metrics: metrics}
}

// Report serves the cached report when present. Cache failures are logged
// and the report is computed from the store.
func (s *SummaryService) Report(ctx context.Context) (report *domain.Summary, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, s.metrics, "summary_report")
	defer func() { finish(err) }()

	if s.cache != nil {
		cached, cacheErr := s.cache.Get(ctx)
		if cacheErr != nil {
			s.logger.Warn("summary cache read failed", zap.Error(cacheErr))
		} else if cached != nil {
			return cached, nil
		}
	}

	report, err = s.repo.Report(ctx)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("building summary", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, report); cacheErr != nil {
			s.logger.Warn("summary cache write failed", zap.Error(cacheErr))
		}
	}
	return report, nil
}
