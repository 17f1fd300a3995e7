package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64
	Name              string
	Category          string
	Price             decimal.Decimal
	AvailableQuantity int
	SupplierID        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanReserve reports whether quantity units can be taken without going negative.
func (p Product) CanReserve(quantity int) bool {
	return quantity > 0 && p.AvailableQuantity >= quantity
}
