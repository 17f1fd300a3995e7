package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/inventory/controller"
	"supplyhub/internal/inventory/repository"
	"supplyhub/internal/inventory/service"
)

type Module struct {
	Service    *service.InventoryService
	Controller *controller.InventoryController
}

func NewModule(db *sql.DB, tx service.TxRunner, logger *zap.Logger, metrics *telemetry.Metrics) *Module {
	repo := repository.NewMySQLInventoryRepository(db)
	svc := service.NewInventoryService(tx, repo, logger, metrics)
	return &Module{
		Service:    svc,
		Controller: controller.NewInventoryController(svc, logger),
	}
}
