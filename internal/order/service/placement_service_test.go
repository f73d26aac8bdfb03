package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockOrderRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, order domain.Order) error
}

func (m *mockOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	return m.InsertFunc(ctx, tx, order)
}

type mockOrderItemRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error
}

func (m *mockOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	return m.InsertFunc(ctx, tx, item)
}

type mockStockRepository struct {
	DecrementStockFunc func(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
}

func (m *mockStockRepository) DecrementStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	return m.DecrementStockFunc(ctx, tx, productID, quantity)
}

type mockOutboxRepository struct {
	InsertFunc func(ctx context.Context, tx *sql.Tx, eventID, topic, key string, payload interface{}) error
}

func (m *mockOutboxRepository) Insert(ctx context.Context, tx *sql.Tx, eventID, topic, key string, payload interface{}) error {
	return m.InsertFunc(ctx, tx, eventID, topic, key, payload)
}

type testDeps struct {
	orders *mockOrderRepository
	items  *mockOrderItemRepository
	stock  *mockStockRepository
	outbox *mockOutboxRepository
	calls  []string
}

func newTestDeps() *testDeps {
	d := &testDeps{}
	d.orders = &mockOrderRepository{InsertFunc: func(ctx context.Context, tx *sql.Tx, order domain.Order) error {
		d.calls = append(d.calls, "order")
		return nil
	}}
	d.items = &mockOrderItemRepository{InsertFunc: func(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
		d.calls = append(d.calls, "item")
		return nil
	}}
	d.stock = &mockStockRepository{DecrementStockFunc: func(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
		d.calls = append(d.calls, "stock")
		return nil
	}}
	d.outbox = &mockOutboxRepository{InsertFunc: func(ctx context.Context, tx *sql.Tx, eventID, topic, key string, payload interface{}) error {
		d.calls = append(d.calls, "outbox")
		return nil
	}}
	return d
}

func newTestPlacementService(t *testing.T, d *testDeps) (*PlacementService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewPlacementService(db, d.orders, d.items, d.stock, d.outbox, "orders.placed", zap.NewNop(), 5*time.Second)
	return svc, mock
}

func testOrder() (domain.Order, domain.OrderItem, dto.OrderPlacedEvent) {
	order := domain.Order{ID: "o-1", OrderNumber: "LUG-00000001", TotalAmount: decimal.NewFromInt(2000)}
	item := domain.OrderItem{ID: "i-1", OrderID: "o-1", ProductID: "p-1", Quantity: 2}
	event := dto.OrderPlacedEvent{EventID: "e-1", OrderID: "o-1"}
	return order, item, event
}

func TestPlaceOrder_CommitsAllWrites(t *testing.T) {
	d := newTestDeps()
	var gotTopic, gotKey string
	d.outbox.InsertFunc = func(ctx context.Context, tx *sql.Tx, eventID, topic, key string, payload interface{}) error {
		d.calls = append(d.calls, "outbox")
		gotTopic, gotKey = topic, key
		assert.Equal(t, "e-1", eventID)
		return nil
	}
	svc, mock := newTestPlacementService(t, d)

	mock.ExpectBegin()
	mock.ExpectCommit()

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	require.NoError(t, err)
	assert.Equal(t, []string{"order", "item", "stock", "outbox"}, d.calls)
	assert.Equal(t, "orders.placed", gotTopic)
	assert.Equal(t, "o-1", gotKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_ItemFailureRollsBackOrder(t *testing.T) {
	d := newTestDeps()
	d.items.InsertFunc = func(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
		d.calls = append(d.calls, "item")
		return errors.New("foreign key violation")
	}
	svc, mock := newTestPlacementService(t, d)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	oce, ok := apperrors.IsOrderCreationError(err)
	require.True(t, ok)
	assert.Equal(t, "failed to create order item", oce.Message)
	assert.Equal(t, []string{"order", "item"}, d.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_ConcurrentStockLossRollsBack(t *testing.T) {
	d := newTestDeps()
	d.stock.DecrementStockFunc = func(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
		d.calls = append(d.calls, "stock")
		return apperrors.NewInsufficientStockError(productID, quantity, -1)
	}
	svc, mock := newTestPlacementService(t, d)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	_, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, []string{"order", "item", "stock"}, d.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_StockErrorIsOrderCreationError(t *testing.T) {
	d := newTestDeps()
	d.stock.DecrementStockFunc = func(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
		return errors.New("lock wait timeout")
	}
	svc, mock := newTestPlacementService(t, d)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	_, ok := apperrors.IsOrderCreationError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_OrderInsertFailure(t *testing.T) {
	d := newTestDeps()
	d.orders.InsertFunc = func(ctx context.Context, tx *sql.Tx, order domain.Order) error {
		return errors.New("duplicate entry 'LUG-1' for key 'uq_orders_number'")
	}
	svc, mock := newTestPlacementService(t, d)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	oce, ok := apperrors.IsOrderCreationError(err)
	require.True(t, ok)
	assert.Equal(t, "failed to create order", oce.Message)
	assert.Empty(t, d.calls)
}

func TestPlaceOrder_DuplicateIdempotencyKeyRollsBack(t *testing.T) {
	d := newTestDeps()
	d.orders.InsertFunc = func(ctx context.Context, tx *sql.Tx, order domain.Order) error {
		return domain.ErrDuplicateIdempotencyKey
	}
	svc, mock := newTestPlacementService(t, d)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	assert.ErrorIs(t, err, domain.ErrDuplicateIdempotencyKey)
	_, ok := apperrors.IsOrderCreationError(err)
	assert.False(t, ok)
	assert.Empty(t, d.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_BeginFailure(t *testing.T) {
	svc, mock := newTestPlacementService(t, newTestDeps())

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	_, ok := apperrors.IsOrderCreationError(err)
	assert.True(t, ok)
}

func TestPlaceOrder_CommitFailure(t *testing.T) {
	svc, mock := newTestPlacementService(t, newTestDeps())

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

	order, item, event := testOrder()
	err := svc.PlaceOrder(context.Background(), order, item, event)

	oce, ok := apperrors.IsOrderCreationError(err)
	require.True(t, ok)
	assert.Equal(t, "failed to commit order", oce.Message)
}
