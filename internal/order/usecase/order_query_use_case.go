package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"supplyhub/internal/auth"
	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/order/repository"
)

type OrderReader interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Order, error)
}

type OrderQueryUseCase struct {
	reader  OrderReader
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

func NewOrderQueryUseCase(reader OrderReader, logger *zap.Logger, metrics *telemetry.Metrics) *OrderQueryUseCase {
	return &OrderQueryUseCase{reader: reader, logger: logger, metrics: metrics}
}

// Get returns the order to its buyer or to a role allowed to read any order.
func (uc *OrderQueryUseCase) Get(ctx context.Context, actor domain.Actor, orderID string) (order *domain.Order, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "get_order", attribute.String("order.id", orderID))
	defer func() { finish(err) }()

	order, err = uc.reader.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("loading order", err)
	}
	if order.BuyerID != actor.ID && !auth.Can(actor.Role, auth.CapOrderReadAny) {
		uc.logger.Warn("order read denied", zap.String("orderId", orderID), zap.String("actorId", actor.ID))
		return nil, apperrors.NewForbiddenError("order belongs to another buyer")
	}
	return order, nil
}

func (uc *OrderQueryUseCase) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	return uc.list(ctx, "list_my_orders", repository.ListFilter{BuyerID: actor.ID})
}

func (uc *OrderQueryUseCase) ListAll(ctx context.Context) ([]domain.Order, error) {
	return uc.list(ctx, "list_orders", repository.ListFilter{})
}

// ListDelivered returns the orders whose delivery has been confirmed.
func (uc *OrderQueryUseCase) ListDelivered(ctx context.Context) ([]domain.Order, error) {
	return uc.list(ctx, "list_delivered_orders", repository.ListFilter{DeliveredOnly: true})
}

func (uc *OrderQueryUseCase) list(ctx context.Context, name string, filter repository.ListFilter) (orders []domain.Order, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, name)
	defer func() { finish(err) }()

	orders, err = uc.reader.List(ctx, filter)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("listing orders", err)
	}
	return orders, nil
}
