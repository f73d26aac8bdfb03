package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"storefront/internal/infrastructure/migrations"
)

// SetupTestDB opens the integration database and migrates it. The DSN comes
// from STOREFRONT_TEST_DSN, falling back to a local storefront_test schema.
// Tests are skipped when the database is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("STOREFRONT_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/storefront_test?parseTime=true&loc=UTC&multiStatements=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	if err := migrations.Up(context.Background(), db, zap.NewNop()); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	tables := []string{
		"outbox", "order_items", "orders", "order_number_seq",
		"product_variants", "product_images", "product_categories", "categories", "products",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// InsertProduct seeds a published product with a primary image.
func InsertProduct(t *testing.T, db *sql.DB, id, slug string, price string, stock int) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO products (id, slug, name, base_price, brand, sku, stock_quantity, is_published)
		VALUES (?, ?, ?, ?, 'Lugo', ?, ?, 1)`,
		id, slug, "Product "+slug, price, "SKU-"+slug, stock,
	)
	if err != nil {
		t.Fatalf("failed to insert product %s: %v", id, err)
	}

	_, err = db.Exec(`
		INSERT INTO product_images (id, product_id, storage_path, display_order, is_primary)
		VALUES (UUID(), ?, ?, 0, 1)`,
		id, "https://cdn.test/"+slug+".jpg",
	)
	if err != nil {
		t.Fatalf("failed to insert image for %s: %v", id, err)
	}
}
