package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplyhub/internal/auth"
	"supplyhub/internal/domain"
	"supplyhub/internal/dto"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/order/usecase"
)

const orderID = "2f6c1d0e-8a4b-4f7e-9c1a-0b5d7e3f9a21"

type mockCreate struct {
	ExecuteFunc func(ctx context.Context, actor domain.Actor, in usecase.CreateOrderInput) (*domain.Order, error)
}

func (m *mockCreate) Execute(ctx context.Context, actor domain.Actor, in usecase.CreateOrderInput) (*domain.Order, error) {
	return m.ExecuteFunc(ctx, actor, in)
}

type mockLifecycle struct {
	ConfirmPaymentFunc  func(ctx context.Context, actor domain.Actor, id string, c domain.PaymentConfirmation) (*domain.Order, error)
	MarkShippedFunc     func(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error)
	ConfirmDeliveryFunc func(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error)
	PurgeFunc           func(ctx context.Context, actor domain.Actor, ids []string) (int, error)
}

func (m *mockLifecycle) ConfirmPayment(ctx context.Context, actor domain.Actor, id string, c domain.PaymentConfirmation) (*domain.Order, error) {
	return m.ConfirmPaymentFunc(ctx, actor, id, c)
}

func (m *mockLifecycle) MarkShipped(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	return m.MarkShippedFunc(ctx, actor, id)
}

func (m *mockLifecycle) ConfirmDelivery(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	return m.ConfirmDeliveryFunc(ctx, actor, id)
}

func (m *mockLifecycle) Purge(ctx context.Context, actor domain.Actor, ids []string) (int, error) {
	return m.PurgeFunc(ctx, actor, ids)
}

type mockQuery struct {
	GetFunc           func(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error)
	ListMineFunc      func(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	ListAllFunc       func(ctx context.Context) ([]domain.Order, error)
	ListDeliveredFunc func(ctx context.Context) ([]domain.Order, error)
}

func (m *mockQuery) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
	return m.GetFunc(ctx, actor, id)
}

func (m *mockQuery) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	return m.ListMineFunc(ctx, actor)
}

func (m *mockQuery) ListAll(ctx context.Context) ([]domain.Order, error) {
	return m.ListAllFunc(ctx)
}

func (m *mockQuery) ListDelivered(ctx context.Context) ([]domain.Order, error) {
	return m.ListDeliveredFunc(ctx)
}

func newRouter(c *OrderController) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.Authenticate(auth.NewHeaderAuthenticator(), zap.NewNop()))
	r.Post("/api/orders", c.Create)
	r.Get("/api/orders", c.List)
	r.Delete("/api/orders", c.Purge)
	r.Get("/api/orders/mine", c.ListMine)
	r.Get("/api/orders/delivered", c.ListDelivered)
	r.Get("/api/orders/{orderId}", c.Get)
	r.Put("/api/orders/{orderId}/pay", c.Pay)
	r.Put("/api/orders/{orderId}/ship", c.Ship)
	r.Put("/api/orders/{orderId}/deliver", c.ConfirmDelivery)
	return r
}

func do(t *testing.T, h http.Handler, method, path, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderActorID, "actor-1")
	req.Header.Set(auth.HeaderActorRole, role)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const createBody = `{
	"orderItems": [{"productId": 1, "quantity": 2}, {"productId": 3, "quantity": 1}],
	"shippingAddress": {"fullName": "Ada", "address": "1 Main St", "city": "Turin", "postalCode": "10100", "country": "IT"},
	"paymentMethod": "PayPal",
	"itemsPrice": "30.00", "shippingPrice": "0", "taxPrice": "4.50", "totalPrice": "34.50"
}`

func TestCreate_Success(t *testing.T) {
	var got usecase.CreateOrderInput
	create := &mockCreate{
		ExecuteFunc: func(ctx context.Context, actor domain.Actor, in usecase.CreateOrderInput) (*domain.Order, error) {
			got = in
			assert.Equal(t, "actor-1", actor.ID)
			return &domain.Order{ID: orderID, BuyerID: actor.ID, Totals: domain.Totals{TotalPrice: in.Totals.TotalPrice}}, nil
		},
	}
	c := NewOrderController(create, &mockLifecycle{}, &mockQuery{}, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodPost, "/api/orders", "buyer", createBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(3), got.Items[1].ProductID)
	assert.Equal(t, "Turin", got.ShippingAddress.City)
	assert.True(t, decimal.RequireFromString("34.50").Equal(got.Totals.TotalPrice))

	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, orderID, body.ID)
	assert.Equal(t, "CREATED", body.Status)
}

func TestCreate_ValidationError(t *testing.T) {
	c := NewOrderController(&mockCreate{}, &mockLifecycle{}, &mockQuery{}, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodPost, "/api/orders", "buyer", `{"orderItems": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestCreate_InsufficientStock(t *testing.T) {
	create := &mockCreate{
		ExecuteFunc: func(ctx context.Context, actor domain.Actor, in usecase.CreateOrderInput) (*domain.Order, error) {
			return nil, apperrors.NewInsufficientStockError(3, 1, 0)
		},
	}
	c := NewOrderController(create, &mockLifecycle{}, &mockQuery{}, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodPost, "/api/orders", "buyer", createBody)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, int64(3), body.ProductID)
}

func TestGet_InvalidOrderID(t *testing.T) {
	c := NewOrderController(&mockCreate{}, &mockLifecycle{}, &mockQuery{}, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodGet, "/api/orders/not-a-uuid", "buyer", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_Forbidden(t *testing.T) {
	query := &mockQuery{
		GetFunc: func(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
			return nil, apperrors.NewForbiddenError("order belongs to another buyer")
		},
	}
	c := NewOrderController(&mockCreate{}, &mockLifecycle{}, query, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodGet, "/api/orders/"+orderID, "buyer", "")

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, orderID, decodeError(t, rec).OrderID)
}

func TestPay(t *testing.T) {
	var got domain.PaymentConfirmation
	lifecycle := &mockLifecycle{
		ConfirmPaymentFunc: func(ctx context.Context, actor domain.Actor, id string, c domain.PaymentConfirmation) (*domain.Order, error) {
			got = c
			return &domain.Order{ID: id, IsPaid: true, Payment: &c}, nil
		},
	}
	c := NewOrderController(&mockCreate{}, lifecycle, &mockQuery{}, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodPut, "/api/orders/"+orderID+"/pay", "buyer",
		`{"id": "PAY-1", "status": "COMPLETED", "update_time": "2024-05-01T10:00:00Z", "email_address": "ada@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PAY-1", got.ID)
	assert.Equal(t, "ada@example.com", got.EmailAddress)

	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PAID", body.Status)
	require.NotNil(t, body.PaymentResult)
	assert.Equal(t, "COMPLETED", body.PaymentResult.Status)
}

func TestTransitions_MapErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		code string
	}{
		{"ship unpaid", "/ship", apperrors.NewPaymentRequiredError(orderID), "PAYMENT_REQUIRED"},
		{"deliver twice", "/deliver", apperrors.NewInvalidTransitionError(apperrors.TransitionAlreadyDelivered, "again"), "ALREADY_DELIVERED"},
		{"deliver missing", "/deliver", apperrors.NewNotFoundError("order not found"), "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := func(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error) {
				return nil, tt.err
			}
			lifecycle := &mockLifecycle{MarkShippedFunc: fail, ConfirmDeliveryFunc: fail}
			c := NewOrderController(&mockCreate{}, lifecycle, &mockQuery{}, zap.NewNop())

			rec := do(t, newRouter(c), http.MethodPut, "/api/orders/"+orderID+tt.path, "supplier", "")

			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestListDelivered(t *testing.T) {
	query := &mockQuery{
		ListDeliveredFunc: func(ctx context.Context) ([]domain.Order, error) {
			return []domain.Order{{ID: orderID, IsPaid: true, IsDeliveryConfirmed: true}}, nil
		},
	}
	c := NewOrderController(&mockCreate{}, &mockLifecycle{}, query, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodGet, "/api/orders/delivered", "inspector", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "DELIVERY_CONFIRMED", body[0].Status)
}

func TestPurge(t *testing.T) {
	lifecycle := &mockLifecycle{
		PurgeFunc: func(ctx context.Context, actor domain.Actor, ids []string) (int, error) {
			return len(ids), nil
		},
	}
	c := NewOrderController(&mockCreate{}, lifecycle, &mockQuery{}, zap.NewNop())

	rec := do(t, newRouter(c), http.MethodDelete, "/api/orders", "admin", `{"orderIds": ["`+orderID+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.PurgeOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Deleted)

	rec = do(t, newRouter(c), http.MethodDelete, "/api/orders", "admin", `{"orderIds": ["nope"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
