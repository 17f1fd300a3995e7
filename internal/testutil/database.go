package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"supplyhub/internal/infrastructure/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL database
// named supplyhub_test on localhost:3306 unless TEST_DB_DSN is set, and skips
// the test when it cannot be reached.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/supplyhub_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the embedded migrations and empties every table.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(db, zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	truncate(t, db)
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}
	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	tables := []string{"order_items", "orders", "inventory_records", "products"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SeedProduct inserts a product row and returns its id.
func SeedProduct(t *testing.T, db *sql.DB, name, category, price string, quantity int) int64 {
	t.Helper()

	res, err := db.Exec(
		`INSERT INTO products (name, category, price, available_quantity, supplier_id) VALUES (?, ?, ?, ?, ?)`,
		name, category, price, quantity, "supplier-1",
	)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return id
}

// AvailableQuantity reads the current stock of a product.
func AvailableQuantity(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()

	var qty int
	if err := db.QueryRow(`SELECT available_quantity FROM products WHERE id = ?`, productID).Scan(&qty); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return qty
}
