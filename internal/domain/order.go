package domain

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "supplyhub/internal/errors"
)

type OrderStatus string

const (
	OrderStatusCreated           OrderStatus = "CREATED"
	OrderStatusPaid              OrderStatus = "PAID"
	OrderStatusShipped           OrderStatus = "SHIPPED"
	OrderStatusDeliveryConfirmed OrderStatus = "DELIVERY_CONFIRMED"
)

type ShippingAddress struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Totals are computed by the pricing collaborator and trusted as input.
type Totals struct {
	ItemsPrice    decimal.Decimal
	ShippingPrice decimal.Decimal
	TaxPrice      decimal.Decimal
	TotalPrice    decimal.Decimal
}

// PaymentConfirmation is the opaque record returned by the external payment capture.
type PaymentConfirmation struct {
	ID           string
	Status       string
	UpdateTime   string
	EmailAddress string
}

type OrderItem struct {
	ID        int64
	OrderID   string
	ProductID int64
	Name      string
	Category  string
	Quantity  int
	UnitPrice decimal.Decimal
}

type Order struct {
	ID              string
	BuyerID         string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Totals          Totals

	IsPaid  bool
	PaidAt  *time.Time
	Payment *PaymentConfirmation

	IsShipped bool
	ShippedAt *time.Time

	IsDeliveryConfirmed bool
	DeliveryConfirmedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status folds the three facets into the furthest lifecycle state reached.
func (o Order) Status() OrderStatus {
	switch {
	case o.IsDeliveryConfirmed:
		return OrderStatusDeliveryConfirmed
	case o.IsShipped:
		return OrderStatusShipped
	case o.IsPaid:
		return OrderStatusPaid
	default:
		return OrderStatusCreated
	}
}

// MarkPaid sets the paid facet. Once set it never changes again.
func (o *Order) MarkPaid(confirmation PaymentConfirmation, now time.Time) error {
	if o.IsPaid {
		return apperrors.NewAlreadyPaidError(o.ID)
	}
	o.IsPaid = true
	o.PaidAt = &now
	o.Payment = &confirmation
	o.UpdatedAt = now
	return nil
}

func (o *Order) MarkShipped(now time.Time) error {
	if !o.IsPaid {
		return apperrors.NewPaymentRequiredError(o.ID)
	}
	if o.IsShipped {
		return apperrors.NewInvalidTransitionError(apperrors.TransitionAlreadyShipped, "order "+o.ID+" has already been shipped")
	}
	o.IsShipped = true
	o.ShippedAt = &now
	o.UpdatedAt = now
	return nil
}

// ConfirmDelivery sets the delivery facet and returns one event per line item.
// Re-confirming is rejected so each line item is aggregated exactly once.
func (o *Order) ConfirmDelivery(now time.Time) ([]DeliveryEvent, error) {
	if !o.IsPaid {
		return nil, apperrors.NewPaymentRequiredError(o.ID)
	}
	if o.IsDeliveryConfirmed {
		return nil, apperrors.NewInvalidTransitionError(apperrors.TransitionAlreadyDelivered, "order "+o.ID+" delivery has already been confirmed")
	}
	o.IsDeliveryConfirmed = true
	o.DeliveryConfirmedAt = &now
	o.UpdatedAt = now

	events := make([]DeliveryEvent, 0, len(o.Items))
	for _, item := range o.Items {
		events = append(events, DeliveryEvent{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Quantity:  int64(item.Quantity),
		})
	}
	return events, nil
}
