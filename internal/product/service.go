package product

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"supplyhub/internal/domain"
)

type productService struct {
	tx     TxRunner
	repo   Repository
	ledger StockLedger
	logger *zap.Logger
}

func NewService(tx TxRunner, repo Repository, ledger StockLedger, logger *zap.Logger) Service {
	return &productService{tx: tx, repo: repo, ledger: ledger, logger: logger}
}

// Create inserts the product and books its initial stock through the ledger
// in the same transaction.
func (s *productService) Create(ctx context.Context, p domain.Product, initialQuantity int) (int64, error) {
	var id int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = s.repo.Insert(ctx, tx, &p)
		if err != nil {
			return err
		}
		if initialQuantity > 0 {
			return s.ledger.Restock(ctx, tx, id, initialQuantity)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("product created", zap.Int64("productId", id), zap.String("supplierId", p.SupplierID), zap.Int("initialQuantity", initialQuantity))
	return id, nil
}

func (s *productService) Restock(ctx context.Context, productID int64, quantity int) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.ledger.Restock(ctx, tx, productID, quantity)
	})
	if err != nil {
		return err
	}

	s.logger.Info("product restocked", zap.Int64("productId", productID), zap.Int("quantity", quantity))
	return nil
}
