package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                    string
	OrderNumber           string
	IdempotencyKey        *string
	GuestEmail            string
	Status                string
	PaymentStatus         string
	Subtotal              decimal.Decimal
	TaxAmount             decimal.Decimal
	ShippingAmount        decimal.Decimal
	DiscountAmount        decimal.Decimal
	TotalAmount           decimal.Decimal
	Currency              string
	ShippingName          string
	ShippingEmail         string
	ShippingPhone         string
	ShippingAddressLine1  string
	ShippingAddressLine2  *string
	ShippingCity          string
	ShippingState         string
	ShippingPostalCode    string
	ShippingCountry       string
	BillingSameAsShipping bool
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Items []OrderItem
}

// ErrDuplicateIdempotencyKey is returned when an order with the same
// idempotency key already exists.
var ErrDuplicateIdempotencyKey = errors.New("order with this idempotency key already exists")

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
}

// NewOrderItem builds the single order line for product, computing the line
// total from the current unit price.
func NewOrderItem(orderID string, product Product, quantity int) OrderItem {
	return OrderItem{
		OrderID:     orderID,
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Quantity:    quantity,
		UnitPrice:   product.BasePrice,
		TotalPrice:  product.BasePrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
