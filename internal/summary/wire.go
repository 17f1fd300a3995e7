package summary

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/summary/cache"
	"supplyhub/internal/summary/controller"
	"supplyhub/internal/summary/repository"
	"supplyhub/internal/summary/service"
)

// ReportCache is the cached report shared with the modules whose writes
// change it.
type ReportCache interface {
	service.Cache
	Invalidate(ctx context.Context) error
}

// NewReportCache returns nil without a Redis client.
func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	if client == nil {
		return nil
	}
	return cache.NewRedisCache(client, ttl)
}

// NewModule wires the summary report. With a nil cache every request reads
// the store.
func NewModule(db *sql.DB, reports ReportCache, logger *zap.Logger, metrics *telemetry.Metrics) *controller.SummaryController {
	repo := repository.NewSQLXRepository(sqlx.NewDb(db, "mysql"))
	return controller.NewSummaryController(service.NewSummaryService(repo, reports, logger, metrics), logger)
}
