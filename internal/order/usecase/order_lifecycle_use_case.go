package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/telemetry"
	"supplyhub/internal/notification"
)

type OrderTransitions interface {
	ConfirmPayment(ctx context.Context, orderID string, confirmation domain.PaymentConfirmation) (*domain.Order, error)
	MarkShipped(ctx context.Context, orderID string) (*domain.Order, error)
	ConfirmDelivery(ctx context.Context, orderID string) (*domain.Order, error)
	Purge(ctx context.Context, orderIDs []string) (int, error)
}

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

// PaymentGuard remembers applied payment confirmations so a replayed capture
// is rejected before it reaches the store. Claim returns the order holding
// the id when it was already claimed.
type PaymentGuard interface {
	Claim(ctx context.Context, paymentID, orderID string) (bool, string, error)
	Forget(ctx context.Context, paymentID string) error
}

type NotificationQueue interface {
	Enqueue(ctx context.Context, n notification.Notification) bool
}

type OrderLifecycleUseCase struct {
	transitions OrderTransitions
	finder      OrderFinder
	guard       PaymentGuard
	queue       NotificationQueue
	reports     ReportInvalidator
	retrier     deadlockRetrier
	logger      *zap.Logger
	metrics     *telemetry.Metrics
}

// NewOrderLifecycleUseCase builds the lifecycle use case. guard, queue and
// reports are optional.
func NewOrderLifecycleUseCase(
	transitions OrderTransitions,
	finder OrderFinder,
	guard PaymentGuard,
	queue NotificationQueue,
	reports ReportInvalidator,
	logger *zap.Logger,
	metrics *telemetry.Metrics,
	maxRetryAttempts int,
) *OrderLifecycleUseCase {
	return &OrderLifecycleUseCase{
		transitions: transitions,
		finder:      finder,
		guard:       guard,
		queue:       queue,
		reports:     reports,
		retrier:     newDeadlockRetrier(maxRetryAttempts, logger),
		logger:      logger,
		metrics:     metrics,
	}
}

// ConfirmPayment records the payment capture. A buyer may only pay for their
// own orders.
func (uc *OrderLifecycleUseCase) ConfirmPayment(
	ctx context.Context,
	actor domain.Actor,
	orderID string,
	confirmation domain.PaymentConfirmation,
) (order *domain.Order, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "confirm_payment",
		attribute.String("order.id", orderID),
		attribute.String("actor.role", string(actor.Role)),
	)
	defer func() { finish(err) }()

	if confirmation.ID == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "id", Message: "payment id is required",
		})
	}

	current, err := uc.finder.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("loading order", err)
	}
	if actor.Role == domain.RoleBuyer && current.BuyerID != actor.ID {
		return nil, apperrors.NewForbiddenError("order belongs to another buyer")
	}
	if current.IsPaid {
		return nil, apperrors.NewAlreadyPaidError(orderID)
	}

	claimed := false
	if uc.guard != nil {
		fresh, holder, claimErr := uc.guard.Claim(ctx, confirmation.ID, orderID)
		switch {
		case claimErr != nil:
			uc.logger.Warn("payment guard unavailable, continuing", zap.String("orderId", orderID), zap.Error(claimErr))
		case !fresh && holder == orderID:
			return nil, apperrors.NewAlreadyPaidError(orderID)
		case !fresh:
			return nil, apperrors.NewConflictError("payment " + confirmation.ID + " has already been applied to another order")
		default:
			claimed = true
		}
	}

	err = uc.retrier.run(ctx, "confirm_payment", func() error {
		var txErr error
		order, txErr = uc.transitions.ConfirmPayment(ctx, orderID, confirmation)
		return txErr
	})
	if err != nil {
		if claimed {
			if forgetErr := uc.guard.Forget(ctx, confirmation.ID); forgetErr != nil {
				uc.logger.Warn("failed to release payment claim", zap.String("paymentId", confirmation.ID), zap.Error(forgetErr))
			}
		}
		return nil, apperrors.ClassifyStoreError("confirming payment", err)
	}

	uc.notifyPaid(ctx, order)
	return order, nil
}

func (uc *OrderLifecycleUseCase) notifyPaid(ctx context.Context, order *domain.Order) {
	if uc.queue == nil {
		return
	}
	for _, n := range notification.ForPaidOrder(order) {
		if !uc.queue.Enqueue(ctx, n) {
			uc.logger.Warn("notification dropped", zap.String("orderId", order.ID), zap.String("type", string(n.Type)))
		}
	}
}

func (uc *OrderLifecycleUseCase) MarkShipped(ctx context.Context, actor domain.Actor, orderID string) (order *domain.Order, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "mark_shipped",
		attribute.String("order.id", orderID),
		attribute.String("actor.id", actor.ID),
	)
	defer func() { finish(err) }()

	err = uc.retrier.run(ctx, "mark_shipped", func() error {
		var txErr error
		order, txErr = uc.transitions.MarkShipped(ctx, orderID)
		return txErr
	})
	if err != nil {
		return nil, apperrors.ClassifyStoreError("marking order shipped", err)
	}
	return order, nil
}

// ConfirmDelivery sets the delivery facet and feeds every line item into the
// inventory aggregate in the same transaction.
func (uc *OrderLifecycleUseCase) ConfirmDelivery(ctx context.Context, actor domain.Actor, orderID string) (order *domain.Order, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "confirm_delivery",
		attribute.String("order.id", orderID),
		attribute.String("actor.id", actor.ID),
	)
	defer func() { finish(err) }()

	err = uc.retrier.run(ctx, "confirm_delivery", func() error {
		var txErr error
		order, txErr = uc.transitions.ConfirmDelivery(ctx, orderID)
		return txErr
	})
	if err != nil {
		return nil, apperrors.ClassifyStoreError("confirming delivery", err)
	}
	return order, nil
}

func (uc *OrderLifecycleUseCase) Purge(ctx context.Context, actor domain.Actor, orderIDs []string) (deleted int, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "purge_orders",
		attribute.String("actor.id", actor.ID),
		attribute.Int("order.count", len(orderIDs)),
	)
	defer func() { finish(err) }()

	if len(orderIDs) == 0 {
		return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "orderIds", Message: "orderIds must not be empty",
		})
	}

	err = uc.retrier.run(ctx, "purge_orders", func() error {
		var txErr error
		deleted, txErr = uc.transitions.Purge(ctx, orderIDs)
		return txErr
	})
	if err != nil {
		return 0, apperrors.ClassifyStoreError("purging orders", err)
	}

	uc.logger.Info("orders purged by actor", zap.String("actorId", actor.ID), zap.Int("deleted", deleted))
	if deleted > 0 {
		invalidateReport(ctx, uc.reports, uc.logger)
	}
	return deleted, nil
}
