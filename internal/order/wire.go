package order

import (
	"database/sql"

	"go.uber.org/zap"

	"supplyhub/internal/config"
	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/order/controller"
	orderrepo "supplyhub/internal/order/repository"
	"supplyhub/internal/order/service"
	"supplyhub/internal/order/usecase"
)

type Dependencies struct {
	DB        *sql.DB
	Tx        service.TxRunner
	Ledger    service.StockLedger
	Inventory service.InventoryAggregator
	Guard     usecase.PaymentGuard
	Queue     usecase.NotificationQueue
	Reports   usecase.ReportInvalidator
	Logger    *zap.Logger
	Metrics   *telemetry.Metrics
}

func NewModule(cfg *config.Config, deps Dependencies) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(deps.DB)

	orderSvc := service.NewOrderService(
		deps.Tx,
		deps.Ledger,
		deps.Inventory,
		orderRepo,
		deps.Logger,
	)

	maxAttempts := cfg.Order.MaxRetryAttempts
	create := usecase.NewCreateOrderUseCase(orderSvc, deps.Reports, deps.Logger, deps.Metrics, maxAttempts)
	lifecycle := usecase.NewOrderLifecycleUseCase(orderSvc, orderRepo, deps.Guard, deps.Queue, deps.Reports, deps.Logger, deps.Metrics, maxAttempts)
	query := usecase.NewOrderQueryUseCase(orderRepo, deps.Logger, deps.Metrics)

	return controller.NewOrderController(create, lifecycle, query, deps.Logger)
}
