package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/telemetry"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type Repository interface {
	AddQuantity(ctx context.Context, tx *sql.Tx, event domain.DeliveryEvent) error
	List(ctx context.Context) ([]domain.InventoryRecord, error)
	FindByProductIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64) (*domain.InventoryRecord, error)
	SetQuantity(ctx context.Context, tx *sql.Tx, productID int64, quantity int64) error
}

// InventoryService owns the materialized inventory records. Records only
// change through delivery events and inspector adjustments.
type InventoryService struct {
	tx      TxRunner
	repo    Repository
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

func NewInventoryService(tx TxRunner, repo Repository, logger *zap.Logger, metrics *telemetry.Metrics) *InventoryService {
	return &InventoryService{tx: tx, repo: repo, logger: logger, metrics: metrics}
}

// ApplyDeliveryEvent adds the delivered quantity inside the caller's
// transaction. It is a pure summation; deduplication belongs to the order.
func (s *InventoryService) ApplyDeliveryEvent(ctx context.Context, tx *sql.Tx, event domain.DeliveryEvent) error {
	if event.ProductID <= 0 || event.Quantity < 1 {
		return apperrors.NewValidationError("invalid delivery event", apperrors.ValidationDetail{
			Field: "quantity", Message: "delivered quantity must be at least 1",
		})
	}

	if err := s.repo.AddQuantity(ctx, tx, event); err != nil {
		return err
	}

	s.logger.Debug("delivery aggregated",
		zap.String("orderId", event.OrderID),
		zap.Int64("productId", event.ProductID),
		zap.Int64("quantity", event.Quantity))
	return nil
}

func (s *InventoryService) ListInventory(ctx context.Context) (records []domain.InventoryRecord, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, s.metrics, "list_inventory")
	defer func() { finish(err) }()

	records, err = s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("listing inventory", err)
	}
	return records, nil
}

// AdjustRecord overwrites the quantity of an existing record.
func (s *InventoryService) AdjustRecord(ctx context.Context, productID int64, quantity int64) (rec *domain.InventoryRecord, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, s.metrics, "adjust_inventory")
	defer func() { finish(err) }()

	if quantity < 0 {
		return nil, apperrors.NewValidationError("invalid quantity", apperrors.ValidationDetail{
			Field: "quantity", Message: "must be at least 0",
		})
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.repo.FindByProductIDForUpdate(ctx, tx, productID)
		if err != nil {
			return err
		}
		if err := s.repo.SetQuantity(ctx, tx, productID, quantity); err != nil {
			return err
		}
		s.logger.Info("inventory adjusted",
			zap.Int64("productId", productID),
			zap.Int64("from", current.Quantity),
			zap.Int64("to", quantity))
		current.Quantity = quantity
		rec = current
		return nil
	})
	if err != nil {
		return nil, apperrors.ClassifyStoreError("adjusting inventory", err)
	}
	return rec, nil
}
