package product

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"supplyhub/internal/auth"
	"supplyhub/internal/commons"
	"supplyhub/internal/dto"
	apperrors "supplyhub/internal/errors"
)

type Controller struct {
	useCase UseCase
	logger  *zap.Logger
}

func NewController(useCase UseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		commons.WriteError(w, r, apperrors.NewUnauthorizedError("missing actor identity"), c.logger)
		return
	}

	var req dto.CreateProductRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	p, err := c.useCase.Create(r.Context(), actor, Input{Name: req.Name, Category: req.Category, Price: req.Price}, req.InitialQuantity)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusCreated, dto.NewProductDTO(*p), c.logger)
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		commons.WriteError(w, r, apperrors.NewUnauthorizedError("missing actor identity"), c.logger)
		return
	}
	id, ok := c.productID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	p, err := c.useCase.Update(r.Context(), actor, id, Input{Name: req.Name, Category: req.Category, Price: req.Price})
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewProductDTO(*p), c.logger)
}

func (c *Controller) HandleRestock(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		commons.WriteError(w, r, apperrors.NewUnauthorizedError("missing actor identity"), c.logger)
		return
	}
	id, ok := c.productID(w, r)
	if !ok {
		return
	}

	var req dto.RestockRequest
	if err := commons.DecodeAndValidate(r, &req); err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	p, err := c.useCase.Restock(r.Context(), actor, id, req.Quantity)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewProductDTO(*p), c.logger)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.productID(w, r)
	if !ok {
		return
	}

	p, err := c.useCase.Get(r.Context(), id)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}
	commons.WriteJSON(w, http.StatusOK, dto.NewProductDTO(*p), c.logger)
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			commons.WriteError(w, r, apperrors.NewValidationError("invalid page", apperrors.ValidationDetail{
				Field:   "page",
				Message: "page must be a positive integer",
			}), c.logger)
			return
		}
		page = n
	}

	result, err := c.useCase.List(r.Context(), page)
	if err != nil {
		commons.WriteError(w, r, err, c.logger)
		return
	}

	products := make([]dto.ProductDTO, len(result.Products))
	for i, p := range result.Products {
		products[i] = dto.NewProductDTO(p)
	}
	commons.WriteJSON(w, http.StatusOK, dto.ProductPageResponse{
		Products: products,
		Page:     result.Page,
		Pages:    result.Pages,
		Total:    result.Total,
	}, c.logger)
}

func (c *Controller) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		commons.WriteError(w, r, apperrors.NewValidationError("invalid product id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		}), c.logger)
		return 0, false
	}
	return id, true
}
