package product

import (
	"context"
	"database/sql"

	"supplyhub/internal/domain"
)

type Repository interface {
	Insert(ctx context.Context, tx *sql.Tx, p *domain.Product) (int64, error)
	Update(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
	Count(ctx context.Context) (int, error)
}

// ReportInvalidator drops the cached summary report once category counts change.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

type StockLedger interface {
	Restock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type Service interface {
	Create(ctx context.Context, p domain.Product, initialQuantity int) (int64, error)
	Restock(ctx context.Context, productID int64, quantity int) error
}

type UseCase interface {
	Create(ctx context.Context, actor domain.Actor, in Input, initialQuantity int) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Actor, id int64, in Input) (*domain.Product, error)
	Restock(ctx context.Context, actor domain.Actor, id int64, quantity int) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page int) (*Page, error)
}
