// Package stock is the only writer of products.available_quantity.
package stock

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
)

type Item struct {
	ProductID int64
	Quantity  int
}

type MySQLLedger struct{}

func NewMySQLLedger() *MySQLLedger {
	return &MySQLLedger{}
}

// Reserve takes every requested quantity or nothing. Rows are locked in
// ascending product id order and checked before any decrement is written, so a
// failed reservation leaves no partial effects even inside a longer transaction.
// It returns the locked products with their post-reservation quantities.
func (l *MySQLLedger) Reserve(ctx context.Context, tx *sql.Tx, items []Item) ([]domain.Product, error) {
	merged, err := Normalize(items)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(merged))
	for i, item := range merged {
		ids[i] = item.ProductID
	}

	products, err := l.lockProducts(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	for _, item := range merged {
		idx, ok := byID[item.ProductID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %d not found", item.ProductID))
		}
		if !products[idx].CanReserve(item.Quantity) {
			return nil, apperrors.NewInsufficientStockError(item.ProductID, item.Quantity, products[idx].AvailableQuantity)
		}
	}

	for _, item := range merged {
		idx := byID[item.ProductID]
		res, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET available_quantity = available_quantity - ?
			 WHERE id = ? AND available_quantity >= ?`,
			item.Quantity, item.ProductID, item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("decrementing stock for product %d: %w", item.ProductID, err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("checking rows affected: %w", err)
		}
		if rows != 1 {
			return nil, apperrors.NewInsufficientStockError(item.ProductID, item.Quantity, products[idx].AvailableQuantity)
		}

		products[idx].AvailableQuantity -= item.Quantity
	}

	return products, nil
}

// Release returns previously reserved quantities. Releasing the same
// reservation twice is a caller error and is not detected here.
func (l *MySQLLedger) Release(ctx context.Context, tx *sql.Tx, items []Item) error {
	merged, err := Normalize(items)
	if err != nil {
		return err
	}

	for _, item := range merged {
		if err := l.increment(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (l *MySQLLedger) Restock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidationError("invalid restock quantity", apperrors.ValidationDetail{
			Field: "quantity", Message: "must be at least 1",
		})
	}
	return l.increment(ctx, tx, productID, quantity)
}

func (l *MySQLLedger) increment(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET available_quantity = available_quantity + ? WHERE id = ?`,
		quantity, productID,
	)
	if err != nil {
		return fmt.Errorf("incrementing stock for product %d: %w", productID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product %d not found", productID))
	}
	return nil
}

func (l *MySQLLedger) lockProducts(ctx context.Context, tx *sql.Tx, ids []int64) ([]domain.Product, error) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, category, price, available_quantity, supplier_id, created_at, updated_at
		FROM products
		WHERE id IN (%s)
		ORDER BY id
		FOR UPDATE`,
		strings.Join(placeholders, ", "),
	)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("locking products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Price, &p.AvailableQuantity,
			&p.SupplierID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// Normalize validates items, merges duplicates and sorts by product id.
func Normalize(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("no items to reserve")
	}

	totals := make(map[int64]int, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, apperrors.NewValidationError("invalid product", apperrors.ValidationDetail{
				Field: "productId", Message: "must be positive",
			})
		}
		if item.Quantity < 1 {
			return nil, apperrors.NewValidationError("invalid quantity", apperrors.ValidationDetail{
				Field: "quantity", Message: "must be at least 1",
			})
		}
		totals[item.ProductID] += item.Quantity
	}

	merged := make([]Item, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, Item{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })

	return merged, nil
}
