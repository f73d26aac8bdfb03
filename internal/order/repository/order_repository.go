package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/errors"
	mysqlinfra "storefront/internal/infrastructure/mysql"
)

const idempotencyIndex = "uq_orders_idempotency"

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, idempotency_key, guest_email, status, payment_status,
			subtotal, tax_amount, shipping_amount, discount_amount, total_amount, currency,
			shipping_name, shipping_email, shipping_phone,
			shipping_address_line1, shipping_address_line2, shipping_city, shipping_state,
			shipping_postal_code, shipping_country, billing_same_as_shipping
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query,
		o.ID, o.OrderNumber, o.IdempotencyKey, o.GuestEmail, o.Status, o.PaymentStatus,
		o.Subtotal, o.TaxAmount, o.ShippingAmount, o.DiscountAmount, o.TotalAmount, o.Currency,
		o.ShippingName, o.ShippingEmail, o.ShippingPhone,
		o.ShippingAddressLine1, o.ShippingAddressLine2, o.ShippingCity, o.ShippingState,
		o.ShippingPostalCode, o.ShippingCountry, o.BillingSameAsShipping,
	)
	if mysqlinfra.IsDuplicateKey(err, idempotencyIndex) {
		return domain.ErrDuplicateIdempotencyKey
	}
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

const orderColumns = `id, order_number, guest_email, status, payment_status,
		       subtotal, tax_amount, shipping_amount, discount_amount, total_amount, currency,
		       shipping_name, shipping_email, shipping_phone,
		       shipping_address_line1, shipping_address_line2, shipping_city, shipping_state,
		       shipping_postal_code, shipping_country, billing_same_as_shipping, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.GuestEmail, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount, &o.TotalAmount, &o.Currency,
		&o.ShippingName, &o.ShippingEmail, &o.ShippingPhone,
		&o.ShippingAddressLine1, &o.ShippingAddressLine2, &o.ShippingCity, &o.ShippingState,
		&o.ShippingPostalCode, &o.ShippingCountry, &o.BillingSameAsShipping, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	orders := []domain.Order{*order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// FindByIdempotencyKey returns the order placed under key, without its lines.
// A missing order is reported as (nil, false, nil).
func (r *MySQLOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, bool, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE idempotency_key = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying order by idempotency key: %w", err)
	}
	return order, true, nil
}

// ListWithItems returns every order, newest first, with its lines.
func (r *MySQLOrderRepository) ListWithItems(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MySQLOrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	placeholders := make([]string, len(orders))
	args := make([]interface{}, len(orders))
	for i, o := range orders {
		placeholders[i] = "?"
		args[i] = o.ID
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, product_id, product_name, sku, quantity, unit_price, total_price, created_at
		FROM order_items
		WHERE order_id IN (%s)
		ORDER BY created_at`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return fmt.Errorf("scanning order item row: %w", err)
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating order item rows: %w", err)
	}

	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return nil
}
