package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"supplyhub/internal/commons"
	"supplyhub/internal/domain"
	"supplyhub/internal/dto"
	apperrors "supplyhub/internal/errors"
)

type InventoryService interface {
	ListInventory(ctx context.Context) ([]domain.InventoryRecord, error)
	AdjustRecord(ctx context.Context, productID int64, quantity int64) (*domain.InventoryRecord, error)
}

type InventoryController struct {
	service InventoryService
	logger  *zap.Logger
}

func NewInventoryController(service InventoryService, logger *zap.Logger) *InventoryController {
	return &InventoryController{service: service, logger: logger}
}

func (c *InventoryController) List(w http.ResponseWriter, r *http.Request) {
	records, err := c.service.ListInventory(r.Context())
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	out := make([]dto.InventoryRecordDTO, len(records))
	for i, rec := range records {
		out[i] = dto.NewInventoryRecordDTO(rec)
	}
	commons.WriteJSON(w, http.StatusOK, out, c.logger)
}

func (c *InventoryController) Adjust(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		commons.WriteError(w, r, apperrors.NewValidationError("invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		}), c.logger)
		return
	}

	var req dto.AdjustInventoryRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	rec, err := c.service.AdjustRecord(r.Context(), productID, *req.Quantity)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewInventoryRecordDTO(*rec), c.logger)
}
