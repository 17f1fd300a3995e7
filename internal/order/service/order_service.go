package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/stock"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type StockLedger interface {
	Reserve(ctx context.Context, tx *sql.Tx, items []stock.Item) ([]domain.Product, error)
	Release(ctx context.Context, tx *sql.Tx, items []stock.Item) error
}

type InventoryAggregator interface {
	ApplyDeliveryEvent(ctx context.Context, tx *sql.Tx, event domain.DeliveryEvent) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, o *domain.Order) error
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Order, error)
	UpdatePayment(ctx context.Context, tx *sql.Tx, o *domain.Order) error
	UpdateShipment(ctx context.Context, tx *sql.Tx, o *domain.Order) error
	UpdateDelivery(ctx context.Context, tx *sql.Tx, o *domain.Order) error
	DeleteByIDs(ctx context.Context, tx *sql.Tx, ids []string) (int64, error)
}

type PlaceOrderInput struct {
	BuyerID         string
	Items           []stock.Item
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	Totals          domain.Totals
}

// OrderService runs every order state change as a single transaction.
type OrderService struct {
	tx        TxRunner
	ledger    StockLedger
	inventory InventoryAggregator
	orderRepo OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(
	tx TxRunner,
	ledger StockLedger,
	inventory InventoryAggregator,
	orderRepo OrderRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		tx:        tx,
		ledger:    ledger,
		inventory: inventory,
		orderRepo: orderRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder reserves stock and records the order in one transaction. Any
// failure after the reservation rolls it back, so stock is never left
// reserved without an order.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	now := s.now()
	order := &domain.Order{
		ID:              uuid.New().String(),
		BuyerID:         in.BuyerID,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Totals:          in.Totals,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		products, err := s.ledger.Reserve(ctx, tx, in.Items)
		if err != nil {
			return err
		}

		byID := make(map[int64]domain.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		order.Items = make([]domain.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			p, ok := byID[item.ProductID]
			if !ok {
				return apperrors.NewInternalError(fmt.Sprintf("reserved product %d missing from ledger result", item.ProductID), nil)
			}
			order.Items = append(order.Items, domain.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Name:      p.Name,
				Category:  p.Category,
				Quantity:  item.Quantity,
				UnitPrice: p.Price,
			})
		}

		return s.orderRepo.Insert(ctx, tx, order)
	})
	if err != nil {
		s.logger.Warn("order placement rolled back", zap.String("buyerId", in.BuyerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placed", zap.String("orderId", order.ID), zap.String("buyerId", order.BuyerID), zap.Int("itemCount", len(order.Items)))
	return order, nil
}

func (s *OrderService) ConfirmPayment(ctx context.Context, orderID string, confirmation domain.PaymentConfirmation) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		o, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.MarkPaid(confirmation, s.now()); err != nil {
			return err
		}
		if err := s.orderRepo.UpdatePayment(ctx, tx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order paid", zap.String("orderId", orderID), zap.String("paymentId", confirmation.ID))
	return order, nil
}

func (s *OrderService) MarkShipped(ctx context.Context, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		o, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.MarkShipped(s.now()); err != nil {
			return err
		}
		if err := s.orderRepo.UpdateShipment(ctx, tx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order shipped", zap.String("orderId", orderID))
	return order, nil
}

// ConfirmDelivery sets the delivery facet and aggregates every line item into
// inventory atomically. If aggregation fails the facet is rolled back too.
func (s *OrderService) ConfirmDelivery(ctx context.Context, orderID string) (*domain.Order, error) {
	var order *domain.Order
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		o, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		events, err := o.ConfirmDelivery(s.now())
		if err != nil {
			return err
		}
		if err := s.orderRepo.UpdateDelivery(ctx, tx, o); err != nil {
			return err
		}

		for _, event := range events {
			if err := s.inventory.ApplyDeliveryEvent(ctx, tx, event); err != nil {
				return fmt.Errorf("applying delivery of product %d: %w", event.ProductID, err)
			}
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery confirmed", zap.String("orderId", orderID), zap.Int("itemCount", len(order.Items)))
	return order, nil
}

// Purge deletes orders. Orders that were never paid still hold their stock
// reservation, which is released before the rows go away.
func (s *OrderService) Purge(ctx context.Context, orderIDs []string) (int, error) {
	var deleted int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		orders, err := s.orderRepo.FindByIDsForUpdate(ctx, tx, orderIDs)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return apperrors.NewNotFoundError("no orders matched")
		}

		var release []stock.Item
		ids := make([]string, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
			if o.IsPaid {
				continue
			}
			for _, item := range o.Items {
				release = append(release, stock.Item{ProductID: item.ProductID, Quantity: item.Quantity})
			}
		}

		if len(release) > 0 {
			if err := s.ledger.Release(ctx, tx, release); err != nil {
				return err
			}
		}

		deleted, err = s.orderRepo.DeleteByIDs(ctx, tx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("orders purged", zap.Int64("deleted", deleted))
	return int(deleted), nil
}
