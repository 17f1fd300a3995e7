package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"supplyhub/internal/domain"
	"supplyhub/internal/errors"
)

const orderColumns = `
	id, buyer_id, shipping_full_name, shipping_address, shipping_city, shipping_postal_code,
	shipping_country, payment_method, items_price, shipping_price, tax_price, total_price,
	is_paid, paid_at, payment_id, payment_status, payment_update_time, payment_email,
	is_shipped, shipped_at, is_delivery_confirmed, delivery_confirmed_at, created_at, updated_at`

// ListFilter narrows order listings. Zero values match every order.
type ListFilter struct {
	BuyerID       string
	DeliveredOnly bool
}

type MySQLOrderRepository struct {
	db    *sql.DB
	items *MySQLOrderItemRepository
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, items: NewMySQLOrderItemRepository(db)}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, buyer_id, shipping_full_name, shipping_address, shipping_city, shipping_postal_code,
			shipping_country, payment_method, items_price, shipping_price, tax_price, total_price,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		o.ID, o.BuyerID, o.ShippingAddress.FullName, o.ShippingAddress.Address, o.ShippingAddress.City,
		o.ShippingAddress.PostalCode, o.ShippingAddress.Country, o.PaymentMethod,
		o.Totals.ItemsPrice, o.Totals.ShippingPrice, o.Totals.TaxPrice, o.Totals.TotalPrice,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return r.items.InsertBatch(ctx, tx, o.ID, o.Items)
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return r.scanOne(ctx, nil, row, id)
}

// FindByIDForUpdate locks the order row until the transaction ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ? FOR UPDATE`, id)
	return r.scanOne(ctx, tx, row, id)
}

func (r *MySQLOrderRepository) FindByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []string) ([]domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id IN (%s) ORDER BY id FOR UPDATE`,
		orderColumns, strings.Join(placeholders, ", "))

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("locking orders: %w", err)
	}
	return r.collect(ctx, tx, rows)
}

func (r *MySQLOrderRepository) List(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	var conditions []string
	var args []interface{}
	if filter.BuyerID != "" {
		conditions = append(conditions, "buyer_id = ?")
		args = append(args, filter.BuyerID)
	}
	if filter.DeliveredOnly {
		conditions = append(conditions, "is_delivery_confirmed = 1")
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	return r.collect(ctx, nil, rows)
}

// UpdatePayment persists the paid facet. The is_paid guard makes a second
// payment fail even if two transactions raced past the row lock.
func (r *MySQLOrderRepository) UpdatePayment(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	query := `
		UPDATE orders
		SET is_paid = 1, paid_at = ?, payment_id = ?, payment_status = ?,
		    payment_update_time = ?, payment_email = ?, updated_at = ?
		WHERE id = ? AND is_paid = 0`

	var conf domain.PaymentConfirmation
	if o.Payment != nil {
		conf = *o.Payment
	}

	return r.guardedUpdate(ctx, tx, query, errors.NewAlreadyPaidError(o.ID),
		o.PaidAt, conf.ID, conf.Status, conf.UpdateTime, conf.EmailAddress, o.UpdatedAt, o.ID,
	)
}

func (r *MySQLOrderRepository) UpdateShipment(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	query := `
		UPDATE orders SET is_shipped = 1, shipped_at = ?, updated_at = ?
		WHERE id = ? AND is_paid = 1 AND is_shipped = 0`

	return r.guardedUpdate(ctx, tx, query,
		errors.NewInvalidTransitionError(errors.TransitionAlreadyShipped, "order "+o.ID+" has already been shipped"),
		o.ShippedAt, o.UpdatedAt, o.ID,
	)
}

func (r *MySQLOrderRepository) UpdateDelivery(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	query := `
		UPDATE orders SET is_delivery_confirmed = 1, delivery_confirmed_at = ?, updated_at = ?
		WHERE id = ? AND is_paid = 1 AND is_delivery_confirmed = 0`

	return r.guardedUpdate(ctx, tx, query,
		errors.NewInvalidTransitionError(errors.TransitionAlreadyDelivered, "order "+o.ID+" delivery has already been confirmed"),
		o.DeliveryConfirmedAt, o.UpdatedAt, o.ID,
	)
}

func (r *MySQLOrderRepository) DeleteByIDs(ctx context.Context, tx *sql.Tx, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	result, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM orders WHERE id IN (%s)`, strings.Join(placeholders, ", ")),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting orders: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (r *MySQLOrderRepository) guardedUpdate(ctx context.Context, tx *sql.Tx, query string, conflict error, args ...interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return conflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MySQLOrderRepository) scanOne(ctx context.Context, tx *sql.Tx, row rowScanner, id string) (*domain.Order, error) {
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	items, err := r.items.FindByOrderIDs(ctx, tx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *MySQLOrderRepository) collect(ctx context.Context, tx *sql.Tx, rows *sql.Rows) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	rows.Close()

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := r.items.FindByOrderIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var paidAt, shippedAt, deliveredAt sql.NullTime
	var paymentID, paymentStatus, paymentUpdateTime, paymentEmail sql.NullString

	err := row.Scan(
		&o.ID, &o.BuyerID, &o.ShippingAddress.FullName, &o.ShippingAddress.Address,
		&o.ShippingAddress.City, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &o.Totals.ItemsPrice, &o.Totals.ShippingPrice, &o.Totals.TaxPrice,
		&o.Totals.TotalPrice, &o.IsPaid, &paidAt, &paymentID, &paymentStatus, &paymentUpdateTime,
		&paymentEmail, &o.IsShipped, &shippedAt, &o.IsDeliveryConfirmed, &deliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if paymentID.Valid {
		o.Payment = &domain.PaymentConfirmation{
			ID:           paymentID.String,
			Status:       paymentStatus.String,
			UpdateTime:   paymentUpdateTime.String,
			EmailAddress: paymentEmail.String,
		}
	}
	if shippedAt.Valid {
		o.ShippedAt = &shippedAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveryConfirmedAt = &deliveredAt.Time
	}

	return &o, nil
}
