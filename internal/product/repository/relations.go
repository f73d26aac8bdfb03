package repository

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

func inClause(ids []string) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

// attachImages loads the images of every product in one query.
func attachImages(ctx context.Context, q Queryer, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	placeholders, args := inClause(productIDs(products))
	query := fmt.Sprintf(`
		SELECT id, product_id, storage_path, alt_text, display_order, is_primary, created_at
		FROM product_images
		WHERE product_id IN (%s)
		ORDER BY display_order, created_at`, placeholders)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying product images: %w", err)
	}
	defer rows.Close()

	byProduct := make(map[string][]domain.ProductImage)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return fmt.Errorf("scanning product image row: %w", err)
		}
		byProduct[img.ProductID] = append(byProduct[img.ProductID], *img)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating product image rows: %w", err)
	}

	for i := range products {
		products[i].Images = byProduct[products[i].ID]
	}
	return nil
}

func attachCategories(ctx context.Context, q Queryer, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	placeholders, args := inClause(productIDs(products))
	query := fmt.Sprintf(`
		SELECT pc.product_id, c.id, c.name, c.slug
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id IN (%s)
		ORDER BY c.display_order, c.name`, placeholders)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying product categories: %w", err)
	}
	defer rows.Close()

	byProduct := make(map[string][]domain.Category)
	for rows.Next() {
		var productID string
		var c domain.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name, &c.Slug); err != nil {
			return fmt.Errorf("scanning product category row: %w", err)
		}
		byProduct[productID] = append(byProduct[productID], c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating product category rows: %w", err)
	}

	for i := range products {
		products[i].Categories = byProduct[products[i].ID]
	}
	return nil
}

func scanImage(row rowScanner) (*domain.ProductImage, error) {
	var img domain.ProductImage
	if err := row.Scan(&img.ID, &img.ProductID, &img.StoragePath, &img.AltText,
		&img.DisplayOrder, &img.IsPrimary, &img.CreatedAt); err != nil {
		return nil, err
	}
	return &img, nil
}
