package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `p.id, p.slug, p.name, p.description, p.base_price, p.compare_at_price,
		       p.brand, p.sku, p.stock_quantity, p.is_published, p.created_at, p.updated_at`

const summaryColumns = `p.id, p.slug, p.name, p.base_price, p.compare_at_price, p.brand,
		       p.stock_quantity, pi.storage_path`

// List returns one page of published products that have a primary image,
// plus the total number of matches.
func (r *MySQLRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	where := []string{"p.is_published = 1"}
	args := []interface{}{}

	if f.CategorySlug != "" {
		where = append(where, `p.id IN (
			SELECT pc.product_id FROM product_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE c.slug = ?)`)
		args = append(args, f.CategorySlug)
	}
	if f.MinPrice != nil {
		where = append(where, "p.base_price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "p.base_price <= ?")
		args = append(args, *f.MaxPrice)
	}

	from := `
		FROM products p
		JOIN product_images pi ON pi.product_id = p.id AND pi.is_primary = 1
		WHERE ` + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := "SELECT " + summaryColumns + from + " ORDER BY " + orderBy(f.Sort) + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]interface{}{}, args...), f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func orderBy(sort string) string {
	switch sort {
	case "price_asc":
		return "p.base_price ASC"
	case "price_desc":
		return "p.base_price DESC"
	default:
		// popular has no signal of its own yet
		return "p.created_at DESC"
	}
}

// Search matches published products with a primary image whose name or
// brand contains q. The default collation makes LIKE case-insensitive.
func (r *MySQLRepository) Search(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM products p
		JOIN product_images pi ON pi.product_id = p.id AND pi.is_primary = 1
		WHERE p.is_published = 1
		  AND (p.name LIKE ? OR p.brand LIKE ?)
		ORDER BY p.created_at DESC
		LIMIT ?`

	pattern := likePattern(q)
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func (r *MySQLRepository) Autocomplete(ctx context.Context, q string, limit int) ([]domain.Product, error) {
	query := `
		SELECT p.name, p.brand, p.slug
		FROM products p
		WHERE p.is_published = 1 AND p.name LIKE ?
		ORDER BY p.name
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("querying autocomplete: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var brand sql.NullString
		if err := rows.Scan(&p.Name, &brand, &p.Slug); err != nil {
			return nil, fmt.Errorf("scanning autocomplete row: %w", err)
		}
		p.Brand = nullString(brand)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating autocomplete rows: %w", err)
	}
	return products, nil
}

// FindPublishedByID returns a published product with images, categories and
// variants.
func (r *MySQLRepository) FindPublishedByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.findDetail(ctx, "p.id = ?", id)
}

func (r *MySQLRepository) FindPublishedBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.findDetail(ctx, "p.slug = ?", slug)
}

func (r *MySQLRepository) findDetail(ctx context.Context, cond string, arg string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE ` + cond + ` AND p.is_published = 1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	products := []domain.Product{*p}
	if err := attachImages(ctx, r.db, products); err != nil {
		return nil, err
	}
	if err := attachCategories(ctx, r.db, products); err != nil {
		return nil, err
	}
	variants, err := r.findVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	products[0].Variants = variants

	return &products[0], nil
}

// FindByID loads a product row regardless of its published flag.
func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return p, nil
}

// FindForCart returns a published product together with its primary image.
// Products without a primary image are reported as not found.
func (r *MySQLRepository) FindForCart(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.base_price, p.stock_quantity, pi.storage_path
		FROM products p
		JOIN product_images pi ON pi.product_id = p.id AND pi.is_primary = 1
		WHERE p.id = ? AND p.is_published = 1
		LIMIT 1`

	var p domain.Product
	var path string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.BasePrice, &p.StockQuantity, &path)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying product for cart: %w", err)
	}
	p.IsPublished = true
	p.Images = []domain.ProductImage{{ProductID: p.ID, StoragePath: path, IsPrimary: true}}
	return &p, nil
}

// ListAll returns every product, published or not, newest first, with
// images and categories.
func (r *MySQLRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p ORDER BY p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying all products: %w", err)
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

	if err := attachImages(ctx, r.db, products); err != nil {
		return nil, err
	}
	if err := attachCategories(ctx, r.db, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MySQLRepository) findVariants(ctx context.Context, productID string) ([]domain.ProductVariant, error) {
	query := `
		SELECT id, product_id, sku, name, price_adjustment, stock_quantity, attributes, created_at, updated_at
		FROM product_variants
		WHERE product_id = ?
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying product variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		var attrs []byte
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.PriceAdjustment,
			&v.StockQuantity, &attrs, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product variant row: %w", err)
		}
		if len(attrs) > 0 {
			v.Attributes = attrs
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product variant rows: %w", err)
	}
	return variants, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var description, brand sql.NullString
	var compareAt decimal.NullDecimal

	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &description, &p.BasePrice, &compareAt,
		&brand, &p.SKU, &p.StockQuantity, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = nullString(description)
	p.Brand = nullString(brand)
	p.CompareAtPrice = nullDecimal(compareAt)
	return &p, nil
}

func scanSummaries(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var brand sql.NullString
		var compareAt decimal.NullDecimal
		var path string

		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.BasePrice, &compareAt, &brand,
			&p.StockQuantity, &path); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.Brand = nullString(brand)
		p.CompareAtPrice = nullDecimal(compareAt)
		p.IsPublished = true
		p.Images = []domain.ProductImage{{ProductID: p.ID, StoragePath: path, IsPrimary: true}}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
