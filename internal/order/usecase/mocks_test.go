package usecase

import (
	"context"
	"sync"

	"supplyhub/internal/domain"
	"supplyhub/internal/notification"
	"supplyhub/internal/order/repository"
	"supplyhub/internal/order/service"
)

type mockOrderPlacer struct {
	PlaceOrderFunc func(ctx context.Context, in service.PlaceOrderInput) (*domain.Order, error)
	calls          int
}

func (m *mockOrderPlacer) PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (*domain.Order, error) {
	m.calls++
	return m.PlaceOrderFunc(ctx, in)
}

type mockTransitions struct {
	ConfirmPaymentFunc  func(ctx context.Context, orderID string, c domain.PaymentConfirmation) (*domain.Order, error)
	MarkShippedFunc     func(ctx context.Context, orderID string) (*domain.Order, error)
	ConfirmDeliveryFunc func(ctx context.Context, orderID string) (*domain.Order, error)
	PurgeFunc           func(ctx context.Context, orderIDs []string) (int, error)
	calls               int
}

func (m *mockTransitions) ConfirmPayment(ctx context.Context, orderID string, c domain.PaymentConfirmation) (*domain.Order, error) {
	m.calls++
	return m.ConfirmPaymentFunc(ctx, orderID, c)
}

func (m *mockTransitions) MarkShipped(ctx context.Context, orderID string) (*domain.Order, error) {
	m.calls++
	return m.MarkShippedFunc(ctx, orderID)
}

func (m *mockTransitions) ConfirmDelivery(ctx context.Context, orderID string) (*domain.Order, error) {
	m.calls++
	return m.ConfirmDeliveryFunc(ctx, orderID)
}

func (m *mockTransitions) Purge(ctx context.Context, orderIDs []string) (int, error) {
	m.calls++
	return m.PurgeFunc(ctx, orderIDs)
}

type mockOrderReader struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
	ListFunc     func(ctx context.Context, filter repository.ListFilter) ([]domain.Order, error)
}

func (m *mockOrderReader) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderReader) List(ctx context.Context, filter repository.ListFilter) ([]domain.Order, error) {
	return m.ListFunc(ctx, filter)
}

type mockGuard struct {
	ClaimFunc func(ctx context.Context, paymentID, orderID string) (bool, string, error)
	forgotten []string
}

func (m *mockGuard) Claim(ctx context.Context, paymentID, orderID string) (bool, string, error) {
	return m.ClaimFunc(ctx, paymentID, orderID)
}

func (m *mockGuard) Forget(_ context.Context, paymentID string) error {
	m.forgotten = append(m.forgotten, paymentID)
	return nil
}

type mockQueue struct {
	mu     sync.Mutex
	queued []notification.Notification
}

func (m *mockQueue) Enqueue(_ context.Context, n notification.Notification) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, n)
	return true
}

type mockReports struct {
	InvalidateErr error
	invalidations int
}

func (m *mockReports) Invalidate(_ context.Context) error {
	m.invalidations++
	return m.InvalidateErr
}
