package dto

import (
	"time"

	"supplyhub/internal/domain"
)

type AdjustInventoryRequest struct {
	Quantity *int64 `json:"quantity" validate:"required,min=0"`
}

type InventoryRecordDTO struct {
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewInventoryRecordDTO(r domain.InventoryRecord) InventoryRecordDTO {
	return InventoryRecordDTO{
		ProductID: r.ProductID,
		Name:      r.Name,
		Category:  r.Category,
		Quantity:  r.Quantity,
		UpdatedAt: r.UpdatedAt,
	}
}
