package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/validation"
)

type mockProductFinder struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Product, error)
}

func (m *mockProductFinder) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockPlacementService struct {
	PlaceOrderFunc func(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error
	calls          int
}

func (m *mockPlacementService) PlaceOrder(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
	m.calls++
	return m.PlaceOrderFunc(ctx, order, item, event)
}

type mockOrderLookup struct {
	FindByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Order, bool, error)
}

func (m *mockOrderLookup) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, bool, error) {
	if m.FindByIdempotencyKeyFunc == nil {
		return nil, false, nil
	}
	return m.FindByIdempotencyKeyFunc(ctx, key)
}

// orderTable behaves like the orders table: it rejects a second insert
// under the same idempotency key and finds orders by key.
type orderTable struct {
	byKey map[string]domain.Order
	calls int
}

func newOrderTable() *orderTable {
	return &orderTable{byKey: make(map[string]domain.Order)}
}

func (o *orderTable) PlaceOrder(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
	o.calls++
	if order.IdempotencyKey != nil {
		if _, exists := o.byKey[*order.IdempotencyKey]; exists {
			return domain.ErrDuplicateIdempotencyKey
		}
		o.byKey[*order.IdempotencyKey] = order
	}
	return nil
}

func (o *orderTable) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, bool, error) {
	order, ok := o.byKey[key]
	if !ok {
		return nil, false, nil
	}
	return &order, true, nil
}

type mockNumbers struct {
	next int
}

func (m *mockNumbers) Next(ctx context.Context) string {
	m.next++
	return fmt.Sprintf("LUG-%08d", m.next)
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) ObserveOrder(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

// Helper to build a use case with deterministic ids
func newTestUseCase(products ProductFinder, placement PlacementService, c cache.Cache) (*PlaceOrderUseCase, *recordingMetrics) {
	metrics := &recordingMetrics{}
	uc := NewPlaceOrderUseCase(products, &mockOrderLookup{}, placement, &mockNumbers{}, validation.New(), c, metrics, zap.NewNop(), Options{
		Currency:       "INR",
		IdempotencyTTL: 24 * time.Hour,
		MaxQuantity:    10000,
	})
	n := 0
	uc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	uc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return uc, metrics
}

func validRequest() dto.PlaceOrderRequest {
	line2 := "Flat 4"
	return dto.PlaceOrderRequest{
		ProductID: "p-1",
		Quantity:  2,
		Customer: &dto.Customer{
			Name:  "Asha Rao",
			Email: "asha@example.com",
			Phone: "+91 98765 43210",
		},
		ShippingAddress: &dto.ShippingAddress{
			Line1:      "12 MG Road",
			Line2:      &line2,
			City:       "Bengaluru",
			State:      "KA",
			PostalCode: "560001",
			Country:    "IN",
		},
	}
}

func productWithStock(stock int) *mockProductFinder {
	return &mockProductFinder{FindByIDFunc: func(ctx context.Context, id string) (*domain.Product, error) {
		return &domain.Product{
			ID:            id,
			Name:          "Cabin Trolley",
			SKU:           "LUG-CT-01",
			BasePrice:     decimal.NewFromInt(1000),
			StockQuantity: stock,
		}, nil
	}}
}

func acceptingPlacement() *mockPlacementService {
	return &mockPlacementService{PlaceOrderFunc: func(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
		return nil
	}}
}

func newMiniredisCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisCache(client)
}

func TestPlaceOrder_Success_ComputesTotals(t *testing.T) {
	var gotOrder domain.Order
	var gotItem domain.OrderItem
	var gotEvent dto.OrderPlacedEvent
	placement := &mockPlacementService{PlaceOrderFunc: func(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
		gotOrder, gotItem, gotEvent = order, item, event
		return nil
	}}
	uc, metrics := newTestUseCase(productWithStock(5), placement, cache.NewNoop())

	result, err := uc.PlaceOrder(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "LUG-00000001", result.OrderNumber)
	assert.Equal(t, "id-1", result.OrderID)
	assert.Equal(t, 2000.0, result.TotalAmount)
	assert.False(t, result.Replayed)

	assert.Equal(t, domain.OrderStatusPending, gotOrder.Status)
	assert.Equal(t, domain.PaymentStatusPending, gotOrder.PaymentStatus)
	assert.Equal(t, "INR", gotOrder.Currency)
	assert.True(t, gotOrder.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, gotOrder.TaxAmount.IsZero())
	assert.True(t, gotOrder.ShippingAmount.IsZero())
	assert.True(t, gotOrder.TotalAmount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "asha@example.com", gotOrder.GuestEmail)
	assert.Equal(t, "12 MG Road", gotOrder.ShippingAddressLine1)
	require.NotNil(t, gotOrder.ShippingAddressLine2)
	assert.True(t, gotOrder.BillingSameAsShipping)

	assert.Equal(t, "id-1", gotItem.OrderID)
	assert.Equal(t, "id-2", gotItem.ID)
	assert.Equal(t, "Cabin Trolley", gotItem.ProductName)
	assert.True(t, gotItem.TotalPrice.Equal(decimal.NewFromInt(2000)))

	assert.Equal(t, "id-3", gotEvent.EventID)
	assert.Equal(t, "2000.00", gotEvent.TotalAmount)
	assert.Equal(t, []string{OutcomePlaced}, metrics.outcomes)
}

func TestPlaceOrder_OutOfStock(t *testing.T) {
	placement := acceptingPlacement()
	uc, metrics := newTestUseCase(productWithStock(0), placement, cache.NewNoop())

	_, err := uc.PlaceOrder(context.Background(), validRequest())

	ise, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 0, ise.Available)
	assert.Equal(t, 0, placement.calls)
	assert.Equal(t, []string{OutcomeRejected}, metrics.outcomes)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	products := &mockProductFinder{FindByIDFunc: func(ctx context.Context, id string) (*domain.Product, error) {
		return nil, apperrors.NewNotFoundError("Product not found")
	}}
	placement := acceptingPlacement()
	uc, _ := newTestUseCase(products, placement, cache.NewNoop())

	_, err := uc.PlaceOrder(context.Background(), validRequest())

	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, "Product not found", nfe.Message)
	assert.Equal(t, 0, placement.calls)
}

func TestPlaceOrder_ProductLookupError(t *testing.T) {
	products := &mockProductFinder{FindByIDFunc: func(ctx context.Context, id string) (*domain.Product, error) {
		return nil, errors.New("db down")
	}}
	uc, metrics := newTestUseCase(products, acceptingPlacement(), cache.NewNoop())

	_, err := uc.PlaceOrder(context.Background(), validRequest())

	assert.EqualError(t, err, "db down")
	assert.Equal(t, []string{OutcomeFailed}, metrics.outcomes)
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.PlaceOrderRequest)
		field  string
	}{
		{name: "missing product", mutate: func(r *dto.PlaceOrderRequest) { r.ProductID = "" }, field: "product_id"},
		{name: "zero quantity", mutate: func(r *dto.PlaceOrderRequest) { r.Quantity = 0 }, field: "quantity"},
		{name: "missing customer", mutate: func(r *dto.PlaceOrderRequest) { r.Customer = nil }, field: "customer"},
		{name: "bad email", mutate: func(r *dto.PlaceOrderRequest) { r.Customer.Email = "nope" }, field: "customer.email"},
		{name: "missing address", mutate: func(r *dto.PlaceOrderRequest) { r.ShippingAddress = nil }, field: "shipping_address"},
		{name: "missing city", mutate: func(r *dto.PlaceOrderRequest) { r.ShippingAddress.City = "" }, field: "shipping_address.city"},
		{name: "quantity above cap", mutate: func(r *dto.PlaceOrderRequest) { r.Quantity = 10001 }, field: "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := &mockProductFinder{FindByIDFunc: func(ctx context.Context, id string) (*domain.Product, error) {
				t.Fatal("product lookup must not run for invalid input")
				return nil, nil
			}}
			uc, _ := newTestUseCase(products, acceptingPlacement(), cache.NewNoop())
			req := validRequest()
			tt.mutate(&req)

			_, err := uc.PlaceOrder(context.Background(), req)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.NotEmpty(t, ve.Details)
			assert.Equal(t, tt.field, ve.Details[0].Field)
		})
	}
}

func TestPlaceOrder_PlacementError(t *testing.T) {
	placement := &mockPlacementService{PlaceOrderFunc: func(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
		return apperrors.NewOrderCreationError("failed to create order item", errors.New("boom"))
	}}
	c := newMiniredisCache(t)
	uc, metrics := newTestUseCase(productWithStock(5), placement, c)
	req := validRequest()
	req.IdempotencyKey = "key-err"

	_, err := uc.PlaceOrder(context.Background(), req)

	_, ok := apperrors.IsOrderCreationError(err)
	assert.True(t, ok)
	assert.Equal(t, []string{OutcomeFailed}, metrics.outcomes)

	var stored dto.PlaceOrderResult
	hit, err := c.Get(context.Background(), "idem:order:create:key-err", &stored)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	placement := acceptingPlacement()
	uc, metrics := newTestUseCase(productWithStock(5), placement, newMiniredisCache(t))
	req := validRequest()
	req.IdempotencyKey = "key-1"

	first, err := uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, placement.calls)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.TotalAmount, second.TotalAmount)
	assert.True(t, second.Replayed)
	assert.Equal(t, []string{OutcomePlaced, OutcomeReplayed}, metrics.outcomes)
}

func TestPlaceOrder_DifferentKeysPlaceTwice(t *testing.T) {
	placement := acceptingPlacement()
	uc, _ := newTestUseCase(productWithStock(5), placement, newMiniredisCache(t))

	req := validRequest()
	req.IdempotencyKey = "a"
	_, err := uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	req.IdempotencyKey = "b"
	_, err = uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, placement.calls)
}

func TestPlaceOrder_IdempotentReplayWithoutCache(t *testing.T) {
	table := newOrderTable()
	uc, metrics := newTestUseCase(productWithStock(5), table, cache.NewNoop())
	uc.orders = table
	req := validRequest()
	req.IdempotencyKey = "double-submit"

	first, err := uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, table.calls)
	assert.Len(t, table.byKey, 1)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.TotalAmount, second.TotalAmount)
	assert.True(t, second.Replayed)
	assert.Equal(t, []string{OutcomePlaced, OutcomeReplayed}, metrics.outcomes)
}

func TestPlaceOrder_ConcurrentDuplicateKeyReplaysWinner(t *testing.T) {
	table := newOrderTable()
	winner := domain.Order{ID: "winner", OrderNumber: "LUG-00000099", TotalAmount: decimal.NewFromInt(2000)}
	lookups := 0
	// the first lookup misses because the other request has not committed yet
	uc, metrics := newTestUseCase(productWithStock(5), table, cache.NewNoop())
	uc.orders = &mockOrderLookup{FindByIdempotencyKeyFunc: func(ctx context.Context, key string) (*domain.Order, bool, error) {
		lookups++
		if lookups == 1 {
			return nil, false, nil
		}
		return &winner, true, nil
	}}
	key := "race"
	table.byKey[key] = winner
	req := validRequest()
	req.IdempotencyKey = key

	result, err := uc.PlaceOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2, lookups)
	assert.Equal(t, 1, table.calls)
	assert.Equal(t, "LUG-00000099", result.OrderNumber)
	assert.Equal(t, "winner", result.OrderID)
	assert.True(t, result.Replayed)
	assert.Equal(t, []string{OutcomeReplayed}, metrics.outcomes)
}

func TestPlaceOrder_ReplayFromTableFillsCache(t *testing.T) {
	c := newMiniredisCache(t)
	placed := domain.Order{ID: "o-1", OrderNumber: "LUG-00000007", TotalAmount: decimal.NewFromInt(3000)}
	uc, _ := newTestUseCase(productWithStock(5), acceptingPlacement(), c)
	uc.orders = &mockOrderLookup{FindByIdempotencyKeyFunc: func(ctx context.Context, key string) (*domain.Order, bool, error) {
		return &placed, true, nil
	}}
	uc.opts.IdempotencyTTL = 0
	req := validRequest()
	req.IdempotencyKey = "from-table"

	result, err := uc.PlaceOrder(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Replayed)
	assert.Equal(t, "LUG-00000007", result.OrderNumber)

	var cached dto.PlaceOrderResult
	hit, err := c.Get(context.Background(), "idem:order:create:from-table", &cached)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "o-1", cached.OrderID)
	assert.False(t, cached.Replayed)
}

func TestPlaceOrder_IdempotencyKeyWrittenToOrder(t *testing.T) {
	var got domain.Order
	placement := &mockPlacementService{PlaceOrderFunc: func(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
		got = order
		return nil
	}}
	uc, _ := newTestUseCase(productWithStock(5), placement, cache.NewNoop())
	req := validRequest()
	req.IdempotencyKey = "k-1"

	_, err := uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, got.IdempotencyKey)
	assert.Equal(t, "k-1", *got.IdempotencyKey)

	req.IdempotencyKey = ""
	_, err = uc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, got.IdempotencyKey)
}

func TestPlaceOrder_IdempotencyKeyTooLong(t *testing.T) {
	placement := acceptingPlacement()
	uc, metrics := newTestUseCase(productWithStock(5), placement, cache.NewNoop())
	req := validRequest()
	req.IdempotencyKey = strings.Repeat("k", 256)

	_, err := uc.PlaceOrder(context.Background(), req)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Idempotency-Key", ve.Details[0].Field)
	assert.Zero(t, placement.calls)
	assert.Equal(t, []string{OutcomeRejected}, metrics.outcomes)
}
