package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"supplyhub/internal/domain"
)

type SQLXRepository struct {
	db *sqlx.DB
}

func NewSQLXRepository(db *sqlx.DB) *SQLXRepository {
	return &SQLXRepository{db: db}
}

type orderTotals struct {
	Buyers     int64           `db:"buyers"`
	Orders     int64           `db:"orders"`
	TotalSales decimal.Decimal `db:"total_sales"`
}

type dailyRow struct {
	Date   string          `db:"day"`
	Orders int64           `db:"orders"`
	Sales  decimal.Decimal `db:"sales"`
}

type categoryRow struct {
	Category string `db:"category"`
	Count    int64  `db:"count"`
}

// Report aggregates the whole store. Daily buckets use the UTC calendar date
// of order creation, oldest first.
func (r *SQLXRepository) Report(ctx context.Context) (*domain.Summary, error) {
	var totals orderTotals
	err := r.db.GetContext(ctx, &totals, `
		SELECT COUNT(DISTINCT buyer_id) AS buyers,
		       COUNT(*) AS orders,
		       COALESCE(SUM(total_price), 0) AS total_sales
		FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("aggregating orders: %w", err)
	}

	var daily []dailyRow
	err = r.db.SelectContext(ctx, &daily, `
		SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS day,
		       COUNT(*) AS orders,
		       COALESCE(SUM(total_price), 0) AS sales
		FROM orders
		GROUP BY day
		ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("aggregating daily orders: %w", err)
	}

	var categories []categoryRow
	err = r.db.SelectContext(ctx, &categories, `
		SELECT category, COUNT(*) AS count
		FROM products
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("aggregating product categories: %w", err)
	}

	summary := &domain.Summary{
		Buyers:            totals.Buyers,
		Orders:            totals.Orders,
		TotalSales:        totals.TotalSales,
		DailyOrders:       make([]domain.DailyOrders, len(daily)),
		ProductCategories: make([]domain.CategoryCount, len(categories)),
	}
	for i, d := range daily {
		summary.DailyOrders[i] = domain.DailyOrders{Date: d.Date, Orders: d.Orders, Sales: d.Sales}
	}
	for i, c := range categories {
		summary.ProductCategories[i] = domain.CategoryCount{Category: c.Category, Count: c.Count}
	}

	return summary, nil
}
