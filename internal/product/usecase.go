package product

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
	"supplyhub/internal/infrastructure/telemetry"
)

const PageSize = 7

type Input struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

type Page struct {
	Products []domain.Product
	Page     int
	Pages    int
	Total    int
}

type catalogueUseCase struct {
	service Service
	repo    Repository
	reports ReportInvalidator
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewUseCase builds the catalogue use case. reports may be nil.
func NewUseCase(service Service, repo Repository, reports ReportInvalidator, logger *zap.Logger, metrics *telemetry.Metrics) UseCase {
	return &catalogueUseCase{service: service, repo: repo, reports: reports, logger: logger, metrics: metrics}
}

func (uc *catalogueUseCase) Create(ctx context.Context, actor domain.Actor, in Input, initialQuantity int) (p *domain.Product, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "create_product", attribute.String("supplier.id", actor.ID))
	defer func() { finish(err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if initialQuantity < 0 {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "countInStock", Message: "countInStock must be non-negative",
		})
	}

	id, err := uc.service.Create(ctx, domain.Product{
		Name:       in.Name,
		Category:   in.Category,
		Price:      in.Price,
		SupplierID: actor.ID,
	}, initialQuantity)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("creating product", err)
	}
	uc.invalidateReport(ctx)

	return uc.repo.FindByID(ctx, id)
}

func (uc *catalogueUseCase) Update(ctx context.Context, actor domain.Actor, id int64, in Input) (p *domain.Product, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "update_product", attribute.Int64("product.id", id))
	defer func() { finish(err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}

	current, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	categoryChanged := current.Category != in.Category
	current.Name, current.Category, current.Price = in.Name, in.Category, in.Price
	if err := uc.repo.Update(ctx, current); err != nil {
		return nil, apperrors.ClassifyStoreError("updating product", err)
	}
	if categoryChanged {
		uc.invalidateReport(ctx)
	}

	return uc.repo.FindByID(ctx, id)
}

func (uc *catalogueUseCase) Restock(ctx context.Context, actor domain.Actor, id int64, quantity int) (p *domain.Product, err error) {
	ctx, finish := telemetry.StartUseCase(ctx, uc.metrics, "restock_product",
		attribute.Int64("product.id", id),
		attribute.Int("quantity", quantity),
	)
	defer func() { finish(err) }()

	if _, err := uc.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := uc.service.Restock(ctx, id, quantity); err != nil {
		return nil, apperrors.ClassifyStoreError("restocking product", err)
	}

	return uc.repo.FindByID(ctx, id)
}

func (uc *catalogueUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("loading product", err)
	}
	return p, nil
}

// List returns one page of the catalogue. Pages are 1-based.
func (uc *catalogueUseCase) List(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("counting products", err)
	}

	products, err := uc.repo.List(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("listing products", err)
	}

	return &Page{
		Products: products,
		Page:     page,
		Pages:    (total + PageSize - 1) / PageSize,
		Total:    total,
	}, nil
}

func (uc *catalogueUseCase) invalidateReport(ctx context.Context) {
	if uc.reports == nil {
		return
	}
	if err := uc.reports.Invalidate(ctx); err != nil {
		uc.logger.Warn("summary report invalidation failed", zap.Error(err))
	}
}

// owned loads the product and checks that the supplier manages it.
func (uc *catalogueUseCase) owned(ctx context.Context, actor domain.Actor, id int64) (*domain.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ClassifyStoreError("loading product", err)
	}
	if p.SupplierID != "" && p.SupplierID != actor.ID {
		uc.logger.Warn("product change denied", zap.Int64("productId", id), zap.String("actorId", actor.ID))
		return nil, apperrors.NewForbiddenError("product belongs to another supplier")
	}
	return p, nil
}

func validateInput(in Input) error {
	var details []apperrors.ValidationDetail
	if in.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if in.Category == "" {
		details = append(details, apperrors.ValidationDetail{Field: "category", Message: "category is required"})
	}
	if in.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
