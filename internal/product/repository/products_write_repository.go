package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
	mysqlinfra "storefront/internal/infrastructure/mysql"
)

// Insert writes a new product row. Duplicate slug or sku becomes a
// ConflictError.
func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Product) error {
	query := `
		INSERT INTO products (id, slug, name, description, base_price, compare_at_price,
		                      brand, sku, stock_quantity, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.BasePrice, p.CompareAtPrice,
		p.Brand, p.SKU, p.StockQuantity, p.IsPublished,
	)
	if mysqlinfra.IsDuplicateEntry(err) {
		return errors.NewConflictError("Product slug or sku already exists")
	}
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of an existing product.
func (r *MySQLRepository) Update(ctx context.Context, tx *sql.Tx, p domain.Product) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = ? FOR UPDATE`, p.ID).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return fmt.Errorf("locking product: %w", err)
	}

	query := `
		UPDATE products
		SET slug = ?, name = ?, description = ?, base_price = ?, compare_at_price = ?,
		    brand = ?, sku = ?, stock_quantity = ?, is_published = ?
		WHERE id = ?`

	_, err = tx.ExecContext(ctx, query,
		p.Slug, p.Name, p.Description, p.BasePrice, p.CompareAtPrice,
		p.Brand, p.SKU, p.StockQuantity, p.IsPublished, p.ID,
	)
	if mysqlinfra.IsDuplicateEntry(err) {
		return errors.NewConflictError("Product slug or sku already exists")
	}
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError("Product not found")
	}
	return nil
}

// ReplaceCategories drops the existing category links of a product and
// writes categoryIDs in their place.
func (r *MySQLRepository) ReplaceCategories(ctx context.Context, tx *sql.Tx, productID string, categoryIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("deleting product categories: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)`,
			productID, categoryID,
		)
		if mysqlinfra.IsDuplicateEntry(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("inserting product category: %w", err)
		}
	}
	return nil
}

func (r *MySQLRepository) DeleteImages(ctx context.Context, tx *sql.Tx, productID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("deleting product images: %w", err)
	}
	return nil
}

func (r *MySQLRepository) DeleteVariants(ctx context.Context, tx *sql.Tx, productID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("deleting product variants: %w", err)
	}
	return nil
}

// AddImage inserts img. A primary image first demotes the product's other
// images so at most one stays primary.
func (r *MySQLRepository) AddImage(ctx context.Context, tx *sql.Tx, img domain.ProductImage) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ? FOR UPDATE`, img.ProductID).Scan(&exists)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return fmt.Errorf("locking product: %w", err)
	}

	if img.IsPrimary {
		_, err := tx.ExecContext(ctx,
			`UPDATE product_images SET is_primary = 0 WHERE product_id = ? AND is_primary = 1`,
			img.ProductID,
		)
		if err != nil {
			return fmt.Errorf("unsetting primary images: %w", err)
		}
	}

	query := `
		INSERT INTO product_images (id, product_id, storage_path, alt_text, display_order, is_primary)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		img.ID, img.ProductID, img.StoragePath, img.AltText, img.DisplayOrder, img.IsPrimary,
	)
	if err != nil {
		return fmt.Errorf("inserting product image: %w", err)
	}
	return nil
}

// DecrementStock takes quantity units from a product only when enough stock
// remains. Zero affected rows means another order got there first.
func (r *MySQLRepository) DecrementStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - ?
		WHERE id = ? AND stock_quantity >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewInsufficientStockError(productID, quantity, -1)
	}
	return nil
}

// FindWithRelations loads any product, published or not, with its images
// and categories.
func (r *MySQLRepository) FindWithRelations(ctx context.Context, id string) (*domain.Product, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	products := []domain.Product{*p}
	if err := attachImages(ctx, r.db, products); err != nil {
		return nil, err
	}
	if err := attachCategories(ctx, r.db, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}
