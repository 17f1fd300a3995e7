package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"supplyhub/internal/domain"
	apperrors "supplyhub/internal/errors"
)

const productColumns = `id, name, category, price, available_quantity, supplier_id, created_at, updated_at`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Insert creates the catalogue row with no stock. Stock only enters through
// the ledger.
func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, p *domain.Product) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO products (name, category, price, available_quantity, supplier_id) VALUES (?, ?, ?, 0, ?)`,
		p.Name, p.Category, p.Price, p.SupplierID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading product id: %w", err)
	}
	return id, nil
}

// Update changes the descriptive fields only; available_quantity is owned by
// the stock ledger.
func (r *MySQLRepository) Update(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, category = ?, price = ? WHERE id = ?`,
		p.Name, p.Category, p.Price, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product %d: %w", id, err)
	}
	return p, nil
}

func (r *MySQLRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.AvailableQuantity,
		&p.SupplierID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
