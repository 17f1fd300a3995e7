package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"supplyhub/internal/domain"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// InsertBatch writes every line item of an order in one statement.
func (r *MySQLOrderItemRepository) InsertBatch(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]interface{}, 0, len(items)*6)
	for i, item := range items {
		placeholders[i] = "(?, ?, ?, ?, ?, ?)"
		args = append(args, orderID, item.ProductID, item.Name, item.Category, item.Quantity, item.UnitPrice)
	}

	query := fmt.Sprintf(`
		INSERT INTO order_items (order_id, product_id, name, category, quantity, unit_price)
		VALUES %s`,
		strings.Join(placeholders, ", "),
	)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}
	return nil
}

// FindByOrderIDs returns line items grouped by order id. Pass a *sql.Tx to
// read inside a transaction, or nil to read through the pool.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, tx *sql.Tx, orderIDs []string) (map[string][]domain.OrderItem, error) {
	out := make(map[string][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	var q queryer = r.db
	if tx != nil {
		q = tx
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, product_id, name, category, quantity, unit_price
		FROM order_items
		WHERE order_id IN (%s)
		ORDER BY order_id, product_id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Category,
			&item.Quantity, &item.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return out, nil
}
