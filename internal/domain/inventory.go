package domain

import "time"

// InventoryRecord is the materialized total of goods received for a product.
type InventoryRecord struct {
	ProductID int64
	Name      string
	Category  string
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeliveryEvent is emitted per line item when an inspector confirms delivery.
type DeliveryEvent struct {
	OrderID   string
	ProductID int64
	Name      string
	Category  string
	Quantity  int64
}
