package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/notification"
)

var (
	admin     = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	supplier  = domain.Actor{ID: "supplier-1", Role: domain.RoleSupplier}
	inspector = domain.Actor{ID: "inspector-1", Role: domain.RoleInspector}
	capture   = domain.PaymentConfirmation{ID: "PAY-1", Status: "COMPLETED"}
)

type lifecycleFixture struct {
	transitions *mockTransitions
	finder      *mockOrderReader
	guard       *mockGuard
	queue       *mockQueue
	reports     *mockReports
}

func newLifecycleFixture(stored *domain.Order) *lifecycleFixture {
	return &lifecycleFixture{
		transitions: &mockTransitions{
			ConfirmPaymentFunc: func(ctx context.Context, orderID string, c domain.PaymentConfirmation) (*domain.Order, error) {
				paid := *stored
				paid.IsPaid = true
				paid.Payment = &c
				return &paid, nil
			},
		},
		finder: &mockOrderReader{
			FindByIDFunc: func(ctx context.Context, id string) (*domain.Order, error) {
				if id != stored.ID {
					return nil, apperrors.NewNotFoundError("order not found")
				}
				copied := *stored
				return &copied, nil
			},
		},
		guard: &mockGuard{
			ClaimFunc: func(ctx context.Context, paymentID, orderID string) (bool, string, error) {
				return true, orderID, nil
			},
		},
		queue:   &mockQueue{},
		reports: &mockReports{},
	}
}

func (f *lifecycleFixture) useCase() *OrderLifecycleUseCase {
	uc := NewOrderLifecycleUseCase(f.transitions, f.finder, f.guard, f.queue, f.reports, zap.NewNop(), nil, 3)
	uc.retrier.base = 0
	return uc
}

func storedOrder() *domain.Order {
	return &domain.Order{
		ID:      "order-1",
		BuyerID: "buyer-1",
		Items:   []domain.OrderItem{{ProductID: 1, Name: "Drill", Quantity: 2}},
	}
}

func TestConfirmPayment_OwnerPaysAndNotifies(t *testing.T) {
	f := newLifecycleFixture(storedOrder())

	order, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", capture)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.Equal(t, 1, f.transitions.calls)

	require.Len(t, f.queue.queued, 2)
	assert.Equal(t, notification.TypeOrderPaidBuyer, f.queue.queued[0].Type)
	assert.Equal(t, notification.TypeOrderPaidSupplier, f.queue.queued[1].Type)
}

func TestConfirmPayment_AdminMayPayAnyOrder(t *testing.T) {
	f := newLifecycleFixture(storedOrder())

	_, err := f.useCase().ConfirmPayment(context.Background(), admin, "order-1", capture)
	require.NoError(t, err)
}

func TestConfirmPayment_OtherBuyerForbidden(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	other := domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}

	_, err := f.useCase().ConfirmPayment(context.Background(), other, "order-1", capture)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
	assert.Zero(t, f.transitions.calls)
	assert.Empty(t, f.queue.queued)
}

func TestConfirmPayment_AlreadyPaidShortCircuits(t *testing.T) {
	stored := storedOrder()
	stored.IsPaid = true
	f := newLifecycleFixture(stored)

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", capture)
	assert.True(t, apperrors.HasTransitionCode(err, apperrors.TransitionAlreadyPaid))
	assert.Zero(t, f.transitions.calls)
}

func TestConfirmPayment_NotFound(t *testing.T) {
	f := newLifecycleFixture(storedOrder())

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "missing", capture)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestConfirmPayment_MissingPaymentID(t *testing.T) {
	f := newLifecycleFixture(storedOrder())

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", domain.PaymentConfirmation{})
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestConfirmPayment_ReplayedCaptureSameOrderIsAlreadyPaid(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.guard.ClaimFunc = func(ctx context.Context, paymentID, orderID string) (bool, string, error) {
		return false, "order-1", nil
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", capture)
	assert.True(t, apperrors.HasTransitionCode(err, apperrors.TransitionAlreadyPaid))
	assert.Zero(t, f.transitions.calls)
	assert.Empty(t, f.guard.forgotten)
}

func TestConfirmPayment_CaptureUsedByAnotherOrderConflicts(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.guard.ClaimFunc = func(ctx context.Context, paymentID, orderID string) (bool, string, error) {
		return false, "order-9", nil
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", capture)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.Zero(t, f.transitions.calls)
}

func TestConfirmPayment_ConcurrentSameCaptureLoserSeesAlreadyPaid(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	claims := map[string]string{}
	var mu sync.Mutex
	f.guard.ClaimFunc = func(ctx context.Context, paymentID, orderID string) (bool, string, error) {
		mu.Lock()
		defer mu.Unlock()
		if holder, ok := claims[paymentID]; ok {
			return false, holder, nil
		}
		claims[paymentID] = orderID
		return true, orderID, nil
	}
	uc := f.useCase()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ConfirmPayment(context.Background(), buyer, "order-1", capture)
		}(i)
	}
	wg.Wait()

	var succeeded, alreadyPaid int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.HasTransitionCode(err, apperrors.TransitionAlreadyPaid):
			alreadyPaid++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, alreadyPaid)
}

func TestConfirmPayment_GuardFailureFailsOpen(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.guard.ClaimFunc = func(ctx context.Context, paymentID, orderID string) (bool, string, error) {
		return false, "", errors.New("redis down")
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", capture)
	require.NoError(t, err)
	assert.Equal(t, 1, f.transitions.calls)
}

func TestConfirmPayment_FailedTransitionReleasesClaim(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.ConfirmPaymentFunc = func(ctx context.Context, orderID string, c domain.PaymentConfirmation) (*domain.Order, error) {
		return nil, apperrors.NewAlreadyPaidError(orderID)
	}

	_, err := f.useCase().ConfirmPayment(context.Background(), buyer, "order-1", capture)
	assert.True(t, apperrors.HasTransitionCode(err, apperrors.TransitionAlreadyPaid))
	assert.Equal(t, []string{"PAY-1"}, f.guard.forgotten)
	assert.Empty(t, f.queue.queued)
}

func TestConfirmPayment_WithoutGuardOrQueue(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	uc := NewOrderLifecycleUseCase(f.transitions, f.finder, nil, nil, nil, zap.NewNop(), nil, 1)

	_, err := uc.ConfirmPayment(context.Background(), buyer, "order-1", capture)
	require.NoError(t, err)
}

func TestMarkShipped(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.MarkShippedFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
		return &domain.Order{ID: orderID, IsPaid: true, IsShipped: true}, nil
	}

	order, err := f.useCase().MarkShipped(context.Background(), supplier, "order-1")
	require.NoError(t, err)
	assert.True(t, order.IsShipped)
}

func TestMarkShipped_PaymentRequired(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.MarkShippedFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
		return nil, apperrors.NewPaymentRequiredError(orderID)
	}

	_, err := f.useCase().MarkShipped(context.Background(), supplier, "order-1")
	assert.True(t, apperrors.HasTransitionCode(err, apperrors.TransitionPaymentRequired))
}

func TestConfirmDelivery_RetriesDeadlock(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.ConfirmDeliveryFunc = func(ctx context.Context, orderID string) (*domain.Order, error) {
		if f.transitions.calls == 1 {
			return nil, createDeadlockError()
		}
		return &domain.Order{ID: orderID, IsPaid: true, IsDeliveryConfirmed: true}, nil
	}

	order, err := f.useCase().ConfirmDelivery(context.Background(), inspector, "order-1")
	require.NoError(t, err)
	assert.True(t, order.IsDeliveryConfirmed)
	assert.Equal(t, 2, f.transitions.calls)
}

func TestPurge(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.PurgeFunc = func(ctx context.Context, orderIDs []string) (int, error) {
		return len(orderIDs), nil
	}

	deleted, err := f.useCase().Purge(context.Background(), admin, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 1, f.reports.invalidations)

	_, err = f.useCase().Purge(context.Background(), admin, nil)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestPurge_NothingDeletedKeepsReport(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.PurgeFunc = func(ctx context.Context, orderIDs []string) (int, error) {
		return 0, nil
	}

	_, err := f.useCase().Purge(context.Background(), admin, []string{"a"})
	require.NoError(t, err)
	assert.Zero(t, f.reports.invalidations)
}

func TestPurge_InvalidationFailureIsNotFatal(t *testing.T) {
	f := newLifecycleFixture(storedOrder())
	f.transitions.PurgeFunc = func(ctx context.Context, orderIDs []string) (int, error) {
		return 1, nil
	}
	f.reports.InvalidateErr = errors.New("redis down")

	deleted, err := f.useCase().Purge(context.Background(), admin, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}
