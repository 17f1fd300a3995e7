package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplyhub/internal/domain"
	"supplyhub/internal/dto"
	apperrors "supplyhub/internal/errors"
)

type mockInventoryService struct {
	ListInventoryFunc func(ctx context.Context) ([]domain.InventoryRecord, error)
	AdjustRecordFunc  func(ctx context.Context, productID int64, quantity int64) (*domain.InventoryRecord, error)
}

func (m *mockInventoryService) ListInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	return m.ListInventoryFunc(ctx)
}

func (m *mockInventoryService) AdjustRecord(ctx context.Context, productID int64, quantity int64) (*domain.InventoryRecord, error) {
	return m.AdjustRecordFunc(ctx, productID, quantity)
}

func newRouter(c *InventoryController) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/inventory", c.List)
	r.Put("/api/inventory/{productId}", c.Adjust)
	return r
}

func TestList(t *testing.T) {
	svc := &mockInventoryService{
		ListInventoryFunc: func(ctx context.Context) ([]domain.InventoryRecord, error) {
			return []domain.InventoryRecord{{ProductID: 1, Name: "Drill", Category: "Power Tools", Quantity: 9}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(NewInventoryController(svc, zap.NewNop())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []dto.InventoryRecordDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(9), body[0].Quantity)
}

func TestAdjust(t *testing.T) {
	var gotID, gotQty int64
	svc := &mockInventoryService{
		AdjustRecordFunc: func(ctx context.Context, productID int64, quantity int64) (*domain.InventoryRecord, error) {
			gotID, gotQty = productID, quantity
			return &domain.InventoryRecord{ProductID: productID, Quantity: quantity}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/inventory/4", strings.NewReader(`{"quantity":0}`))
	newRouter(NewInventoryController(svc, zap.NewNop())).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), gotID)
	assert.Equal(t, int64(0), gotQty)
}

func TestAdjust_ValidationAndNotFound(t *testing.T) {
	svc := &mockInventoryService{
		AdjustRecordFunc: func(ctx context.Context, productID int64, quantity int64) (*domain.InventoryRecord, error) {
			return nil, apperrors.NewNotFoundError("inventory record for product 4 not found")
		},
	}
	router := newRouter(NewInventoryController(svc, zap.NewNop()))

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad id", "/api/inventory/abc", `{"quantity":1}`, http.StatusBadRequest},
		{"missing quantity", "/api/inventory/4", `{}`, http.StatusBadRequest},
		{"negative quantity", "/api/inventory/4", `{"quantity":-2}`, http.StatusBadRequest},
		{"unknown record", "/api/inventory/4", `{"quantity":2}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
