package usecase

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/order/service"
	"supplyhub/internal/stock"
)

const (
	maxOrderItems   = 100
	maxItemQuantity = 10000
	minItemQuantity = 1
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (*domain.Order, error)
}

type CreateOrderInput struct {
	Items           []stock.Item
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	Totals          domain.Totals
}

type CreateOrderUseCase struct {
	placer  OrderPlacer
	reports ReportInvalidator
	retrier deadlockRetrier
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewCreateOrderUseCase builds the use case. reports may be nil.
func NewCreateOrderUseCase(placer OrderPlacer, reports ReportInvalidator, logger *zap.Logger, metrics *telemetry.Metrics, maxRetryAttempts int) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		placer:  placer,
		reports: reports,
		retrier: newDeadlockRetrier(maxRetryAttempts, logger),
		logger:  logger,
		metrics: metrics,
	}
}

// Execute places an order for the actor. Either every item is reserved and
// the order exists, or nothing changed.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, actor domain.Actor, in CreateOrderInput) (order *domain.Order, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "create_order",
		attribute.String("buyer.id", actor.ID),
		attribute.Int("order.item_count", len(in.Items)),
	)
	defer func() { finish(err) }()

	uc.logger.Info("create order started", zap.String("buyerId", actor.ID), zap.Int("itemCount", len(in.Items)))

	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}

	placeInput := service.PlaceOrderInput{
		BuyerID:         actor.ID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Totals:          in.Totals,
	}

	err = uc.retrier.run(ctx, "create_order", func() error {
		var placeErr error
		order, placeErr = uc.placer.PlaceOrder(ctx, placeInput)
		return placeErr
	})
	if err != nil {
		return nil, apperrors.ClassifyStoreError("placing order", err)
	}

	invalidateReport(ctx, uc.reports, uc.logger)
	return order, nil
}

func validateCreateOrder(in CreateOrderInput) error {
	var details []apperrors.ValidationDetail

	switch {
	case len(in.Items) == 0:
		details = append(details, apperrors.ValidationDetail{Field: "orderItems", Message: "orderItems must not be empty"})
	case len(in.Items) > maxOrderItems:
		details = append(details, apperrors.ValidationDetail{Field: "orderItems", Message: "orderItems exceeds maximum of 100"})
	}

	seen := make(map[int64]bool, len(in.Items))
	for idx, item := range in.Items {
		prefix := "orderItems[" + strconv.Itoa(idx) + "]"
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".productId", Message: "productId must be a positive integer"})
		} else if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".productId", Message: "productId must not be duplicated"})
		}
		seen[item.ProductID] = true

		if item.Quantity < minItemQuantity || item.Quantity > maxItemQuantity {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".quantity", Message: "quantity must be between 1 and 10000"})
		}
	}

	totals := map[string]decimal.Decimal{
		"itemsPrice":    in.Totals.ItemsPrice,
		"shippingPrice": in.Totals.ShippingPrice,
		"taxPrice":      in.Totals.TaxPrice,
		"totalPrice":    in.Totals.TotalPrice,
	}
	for _, field := range []string{"itemsPrice", "shippingPrice", "taxPrice", "totalPrice"} {
		if totals[field].IsNegative() {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: field + " must be non-negative"})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
