package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"supplyhub/internal/domain"
)

type OrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"min=1,max=10000"`
}

type ShippingAddressDTO struct {
	FullName   string `json:"fullName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"orderItems" validate:"required,min=1,max=100,unique=ProductID,dive"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required"`
	ItemsPrice      decimal.Decimal    `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal    `json:"shippingPrice"`
	TaxPrice        decimal.Decimal    `json:"taxPrice"`
	TotalPrice      decimal.Decimal    `json:"totalPrice"`
}

// PayOrderRequest mirrors the capture record returned by the payment gateway.
type PayOrderRequest struct {
	ID           string `json:"id" validate:"required"`
	Status       string `json:"status" validate:"required"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type PurgeOrdersRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1,dive,uuid"`
}

type PurgeOrdersResponse struct {
	Deleted int `json:"deleted"`
}

type OrderItemDTO struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type PaymentResultDTO struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type OrderResponse struct {
	ID                  string             `json:"id"`
	BuyerID             string             `json:"buyerId"`
	Status              string             `json:"status"`
	Items               []OrderItemDTO     `json:"orderItems"`
	ShippingAddress     ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod       string             `json:"paymentMethod"`
	ItemsPrice          decimal.Decimal    `json:"itemsPrice"`
	ShippingPrice       decimal.Decimal    `json:"shippingPrice"`
	TaxPrice            decimal.Decimal    `json:"taxPrice"`
	TotalPrice          decimal.Decimal    `json:"totalPrice"`
	IsPaid              bool               `json:"isPaid"`
	PaidAt              *time.Time         `json:"paidAt,omitempty"`
	PaymentResult       *PaymentResultDTO  `json:"paymentResult,omitempty"`
	IsShipped           bool               `json:"isShipped"`
	ShippedAt           *time.Time         `json:"shippedAt,omitempty"`
	IsDeliveryConfirmed bool               `json:"isDeliveryConfirmed"`
	DeliveryConfirmedAt *time.Time         `json:"deliveryConfirmedAt,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Category:  item.Category,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	resp := OrderResponse{
		ID:      o.ID,
		BuyerID: o.BuyerID,
		Status:  string(o.Status()),
		Items:   items,
		ShippingAddress: ShippingAddressDTO{
			FullName:   o.ShippingAddress.FullName,
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		PaymentMethod:       o.PaymentMethod,
		ItemsPrice:          o.Totals.ItemsPrice,
		ShippingPrice:       o.Totals.ShippingPrice,
		TaxPrice:            o.Totals.TaxPrice,
		TotalPrice:          o.Totals.TotalPrice,
		IsPaid:              o.IsPaid,
		PaidAt:              o.PaidAt,
		IsShipped:           o.IsShipped,
		ShippedAt:           o.ShippedAt,
		IsDeliveryConfirmed: o.IsDeliveryConfirmed,
		DeliveryConfirmedAt: o.DeliveryConfirmedAt,
		CreatedAt:           o.CreatedAt,
	}

	if o.Payment != nil {
		resp.PaymentResult = &PaymentResultDTO{
			ID:           o.Payment.ID,
			Status:       o.Payment.Status,
			UpdateTime:   o.Payment.UpdateTime,
			EmailAddress: o.Payment.EmailAddress,
		}
	}

	return resp
}

func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = NewOrderResponse(&orders[i])
	}
	return out
}
