package repository

import (
	"context"
	"database/sql"
	"fmt"

	"supplyhub/internal/domain"
	"supplyhub/internal/errors"
)

type MySQLInventoryRepository struct {
	db *sql.DB
}

func NewMySQLInventoryRepository(db *sql.DB) *MySQLInventoryRepository {
	return &MySQLInventoryRepository{db: db}
}

// AddQuantity creates the record on the first delivery of a product and
// increments it afterwards, in a single atomic statement.
func (r *MySQLInventoryRepository) AddQuantity(ctx context.Context, tx *sql.Tx, event domain.DeliveryEvent) error {
	query := `
		INSERT INTO inventory_records (product_id, name, category, quantity)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`

	if _, err := tx.ExecContext(ctx, query, event.ProductID, event.Name, event.Category, event.Quantity); err != nil {
		return fmt.Errorf("upserting inventory record: %w", err)
	}
	return nil
}

func (r *MySQLInventoryRepository) List(ctx context.Context) ([]domain.InventoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, category, quantity, created_at, updated_at
		FROM inventory_records
		ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("querying inventory records: %w", err)
	}
	defer rows.Close()

	records := []domain.InventoryRecord{}
	for rows.Next() {
		var rec domain.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.Name, &rec.Category, &rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inventory rows: %w", err)
	}

	return records, nil
}

func (r *MySQLInventoryRepository) FindByProductIDForUpdate(ctx context.Context, tx *sql.Tx, productID int64) (*domain.InventoryRecord, error) {
	var rec domain.InventoryRecord
	err := tx.QueryRowContext(ctx, `
		SELECT product_id, name, category, quantity, created_at, updated_at
		FROM inventory_records
		WHERE product_id = ?
		FOR UPDATE`, productID,
	).Scan(&rec.ProductID, &rec.Name, &rec.Category, &rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("inventory record for product %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying inventory record: %w", err)
	}

	return &rec, nil
}

func (r *MySQLInventoryRepository) SetQuantity(ctx context.Context, tx *sql.Tx, productID int64, quantity int64) error {
	result, err := tx.ExecContext(ctx, `UPDATE inventory_records SET quantity = ? WHERE product_id = ?`, quantity, productID)
	if err != nil {
		return fmt.Errorf("updating inventory quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	// MySQL reports 0 when the value is unchanged, so only a missing row is an error here.
	if rowsAffected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM inventory_records WHERE product_id = ?`, productID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return errors.NewNotFoundError(fmt.Sprintf("inventory record for product %d not found", productID))
			}
			return fmt.Errorf("checking inventory record: %w", err)
		}
	}

	return nil
}
