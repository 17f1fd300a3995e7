package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"supplyhub/internal/domain"
)

type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,max=255"`
	Category        string          `json:"category" validate:"required,max=100"`
	Price           decimal.Decimal `json:"price"`
	InitialQuantity int             `json:"countInStock" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Category string          `json:"category" validate:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type ProductDTO struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"countInStock"`
	SupplierID        string          `json:"supplierId"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type ProductPageResponse struct {
	Products []ProductDTO `json:"products"`
	Page     int          `json:"page"`
	Pages    int          `json:"pages"`
	Total    int          `json:"total"`
}

func NewProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price,
		AvailableQuantity: p.AvailableQuantity,
		SupplierID:        p.SupplierID,
		UpdatedAt:         p.UpdatedAt,
	}
}
