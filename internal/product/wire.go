package product

import (
	"database/sql"

	"go.uber.org/zap"

	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/product/repository"
)

func NewModule(db *sql.DB, tx TxRunner, ledger StockLedger, reports ReportInvalidator, logger *zap.Logger, metrics *telemetry.Metrics) *Controller {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(tx, repo, ledger, logger)
	uc := NewUseCase(svc, repo, reports, logger, metrics)
	return NewController(uc, logger)
}
