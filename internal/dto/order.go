package dto

import "time"

type PlaceOrderRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	Customer        *Customer        `json:"customer" validate:"required"`
	ShippingAddress *ShippingAddress `json:"shipping_address" validate:"required"`

	// IdempotencyKey comes from the Idempotency-Key header, not the body.
	IdempotencyKey string `json:"-"`
}

type Customer struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=40"`
}

type ShippingAddress struct {
	Line1      string  `json:"line1" validate:"required,max=255"`
	Line2      *string `json:"line2" validate:"omitempty,max=255"`
	City       string  `json:"city" validate:"required,max=120"`
	State      string  `json:"state" validate:"required,max=120"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
	Country    string  `json:"country" validate:"required,max=80"`
}

// PlaceOrderResult is what a successful placement reports. It is also the
// value remembered under an idempotency key.
type PlaceOrderResult struct {
	OrderNumber string  `json:"order_number"`
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Replayed    bool    `json:"-"`
}

type PlaceOrderResponse struct {
	Success     bool    `json:"success"`
	OrderNumber string  `json:"order_number"`
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Message     string  `json:"message"`
}

type OrderItemDTO struct {
	ID          string  `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type AdminOrderDTO struct {
	ID                   string         `json:"id"`
	OrderNumber          string         `json:"order_number"`
	Status               string         `json:"status"`
	PaymentStatus        string         `json:"payment_status"`
	TotalAmount          float64        `json:"total_amount"`
	Currency             string         `json:"currency"`
	ShippingName         string         `json:"shipping_name"`
	ShippingEmail        string         `json:"shipping_email"`
	ShippingPhone        string         `json:"shipping_phone"`
	ShippingAddressLine1 string         `json:"shipping_address_line1"`
	ShippingAddressLine2 *string        `json:"shipping_address_line2"`
	ShippingCity         string         `json:"shipping_city"`
	ShippingState        string         `json:"shipping_state"`
	ShippingPostalCode   string         `json:"shipping_postal_code"`
	ShippingCountry      string         `json:"shipping_country"`
	CreatedAt            time.Time      `json:"created_at"`
	OrderItems           []OrderItemDTO `json:"order_items"`
}

// OrderPlacedEvent is the outbox payload published after a successful order.
type OrderPlacedEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
