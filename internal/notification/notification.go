// Package notification delivers best-effort order notifications. Delivery is
// never guaranteed and never affects the outcome of the operation that
// produced the notification.
package notification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"supplyhub/internal/domain"
)

type Type string

const (
	TypeOrderPaidBuyer    Type = "order.paid.buyer"
	TypeOrderPaidSupplier Type = "order.paid.supplier"
)

type Item struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Notification struct {
	Type       Type            `json:"type"`
	OrderID    string          `json:"orderId"`
	BuyerID    string          `json:"buyerId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Items      []Item          `json:"items"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ForPaidOrder builds the buyer receipt and the supplier shipment request.
func ForPaidOrder(o *domain.Order) []Notification {
	items := make([]Item, len(o.Items))
	for i, it := range o.Items {
		items[i] = Item{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity}
	}

	occurredAt := o.UpdatedAt
	if o.PaidAt != nil {
		occurredAt = *o.PaidAt
	}

	base := Notification{
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		TotalPrice: o.Totals.TotalPrice,
		Items:      items,
		OccurredAt: occurredAt,
	}

	receipt, shipment := base, base
	receipt.Type = TypeOrderPaidBuyer
	shipment.Type = TypeOrderPaidSupplier
	return []Notification{receipt, shipment}
}
