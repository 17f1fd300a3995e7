package usecase

import (
	"context"

	"go.uber.org/zap"
)

// ReportInvalidator drops the cached summary report after writes that change
// order counts or sales.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

func invalidateReport(ctx context.Context, reports ReportInvalidator, logger *zap.Logger) {
	if reports == nil {
		return
	}
	if err := reports.Invalidate(ctx); err != nil {
		logger.Warn("summary report invalidation failed", zap.Error(err))
	}
}
