package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplyhub/internal/auth"
	"supplyhub/internal/commons"
	"supplyhub/internal/domain"
	"supplyhub/internal/dto"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/order/usecase"
	"supplyhub/internal/stock"
)

type CreateOrderUseCase interface {
	Execute(ctx context.Context, actor domain.Actor, in usecase.CreateOrderInput) (*domain.Order, error)
}

type LifecycleUseCase interface {
	ConfirmPayment(ctx context.Context, actor domain.Actor, orderID string, confirmation domain.PaymentConfirmation) (*domain.Order, error)
	MarkShipped(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
	ConfirmDelivery(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
	Purge(ctx context.Context, actor domain.Actor, orderIDs []string) (int, error)
}

type QueryUseCase interface {
	Get(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListDelivered(ctx context.Context) ([]domain.Order, error)
}

type OrderController struct {
	create    CreateOrderUseCase
	lifecycle LifecycleUseCase
	query     QueryUseCase
	logger    *zap.Logger
}

func NewOrderController(create CreateOrderUseCase, lifecycle LifecycleUseCase, query QueryUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		create:    create,
		lifecycle: lifecycle,
		query:     query,
		logger:    logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := c.actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	items := make([]stock.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = stock.Item{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := c.create.Execute(r.Context(), actor, usecase.CreateOrderInput{
		Items: items,
		ShippingAddress: domain.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		Totals: domain.Totals{
			ItemsPrice:    req.ItemsPrice,
			ShippingPrice: req.ShippingPrice,
			TaxPrice:      req.TaxPrice,
			TotalPrice:    req.TotalPrice,
		},
	})
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(order), c.logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := c.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := c.orderID(w, r)
	if !ok {
		return
	}

	order, err := c.query.Get(r.Context(), actor, orderID)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), c.logger)
}

func (c *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := c.actor(w, r)
	if !ok {
		return
	}
	orders, err := c.query.ListMine(r.Context(), actor)
	c.writeList(w, r, orders, err)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.query.ListAll(r.Context())
	c.writeList(w, r, orders, err)
}

func (c *OrderController) ListDelivered(w http.ResponseWriter, r *http.Request) {
	orders, err := c.query.ListDelivered(r.Context())
	c.writeList(w, r, orders, err)
}

func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	actor, ok := c.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := c.orderID(w, r)
	if !ok {
		return
	}

	var req dto.PayOrderRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	order, err := c.lifecycle.ConfirmPayment(r.Context(), actor, orderID, domain.PaymentConfirmation{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	})
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), c.logger)
}

func (c *OrderController) Ship(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.lifecycle.MarkShipped)
}

func (c *OrderController) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.lifecycle.ConfirmDelivery)
}

func (c *OrderController) Purge(w http.ResponseWriter, r *http.Request) {
	actor, ok := c.actor(w, r)
	if !ok {
		return
	}

	var req dto.PurgeOrdersRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	deleted, err := c.lifecycle.Purge(r.Context(), actor, req.OrderIDs)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.PurgeOrdersResponse{Deleted: deleted}, c.logger)
}

func (c *OrderController) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error),
) {
	actor, ok := c.actor(w, r)
	if !ok {
		return
	}
	orderID, ok := c.orderID(w, r)
	if !ok {
		return
	}

	order, err := apply(r.Context(), actor, orderID)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), c.logger)
}

func (c *OrderController) writeList(w http.ResponseWriter, r *http.Request, orders []domain.Order, err error) {
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewOrderListResponse(orders), c.logger)
}

func (c *OrderController) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		commons.WriteError(w, r, apperrors.NewUnauthorizedError("missing actor identity"), c.logger)
		return domain.Actor{}, false
	}
	return actor, true
}

func (c *OrderController) orderID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "orderId")
	if _, err := uuid.Parse(raw); err != nil {
		commons.WriteError(w, r, apperrors.NewValidationError("invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a valid UUID",
		}), c.logger)
		return "", false
	}
	return raw, true
}
