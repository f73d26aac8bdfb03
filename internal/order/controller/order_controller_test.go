package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

type mockPlaceOrderUseCase struct {
	PlaceOrderFunc func(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error)
}

func (m *mockPlaceOrderUseCase) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
	return m.PlaceOrderFunc(ctx, req)
}

const validBody = `{
	"product_id": "p-1",
	"quantity": 2,
	"customer": {"name": "Asha", "email": "asha@example.com", "phone": "123"},
	"shipping_address": {"line1": "12 MG Road", "city": "Bengaluru", "state": "KA", "postal_code": "560001", "country": "IN"}
}`

func doPlaceOrder(uc PlaceOrderUseCase, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	NewOrderController(uc, zap.NewNop()).PlaceOrder(rec, req)
	return rec
}

func TestPlaceOrder_Success(t *testing.T) {
	var got dto.PlaceOrderRequest
	uc := &mockPlaceOrderUseCase{PlaceOrderFunc: func(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
		got = req
		return &dto.PlaceOrderResult{OrderNumber: "LUG-00000001", OrderID: "o-1", TotalAmount: 2000}, nil
	}}

	rec := doPlaceOrder(uc, validBody, map[string]string{IdempotencyHeader: "  abc-123 "})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"order_number": "LUG-00000001",
		"order_id": "o-1",
		"total_amount": 2000,
		"message": "Order placed successfully"
	}`, rec.Body.String())
	assert.Equal(t, "abc-123", got.IdempotencyKey)
	assert.Equal(t, "p-1", got.ProductID)
	assert.Equal(t, 2, got.Quantity)
	require.NotNil(t, got.ShippingAddress)
	assert.Equal(t, "560001", got.ShippingAddress.PostalCode)
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "insufficient stock", err: apperrors.NewInsufficientStockError("p-1", 2, 0), wantStatus: http.StatusBadRequest, wantError: "Insufficient stock"},
		{name: "not found", err: apperrors.NewNotFoundError("Product not found"), wantStatus: http.StatusNotFound, wantError: "Product not found"},
		{name: "order creation", err: apperrors.NewOrderCreationError("failed to create order item", errors.New("x")), wantStatus: http.StatusInternalServerError, wantError: "Failed to create order"},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantError: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockPlaceOrderUseCase{PlaceOrderFunc: func(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
				return nil, tt.err
			}}

			rec := doPlaceOrder(uc, validBody, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotEmpty(t, body.TraceID)
		})
	}
}

func TestPlaceOrder_InvalidJSON(t *testing.T) {
	uc := &mockPlaceOrderUseCase{PlaceOrderFunc: func(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
		t.Fatal("use case must not run")
		return nil, nil
	}}

	rec := doPlaceOrder(uc, `{"product_id":`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestPlaceOrder_LogsCarryTraceID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	calls := 0
	uc := &mockPlaceOrderUseCase{PlaceOrderFunc: func(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
		calls++
		if calls == 1 {
			return &dto.PlaceOrderResult{OrderNumber: "LUG-00000001", OrderID: "o-1", TotalAmount: 2000, Replayed: true}, nil
		}
		return nil, errors.New("boom")
	}}
	ctrl := NewOrderController(uc, zap.New(core))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(validBody))
		req = req.WithContext(httpx.WithTraceID(req.Context(), "trace-1"))
		ctrl.PlaceOrder(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "order request replayed", entries[0].Message)
	assert.Equal(t, "request failed", entries[1].Message)
	for _, e := range entries {
		traceIDs := 0
		for _, f := range e.Context {
			if f.Key == "traceId" {
				traceIDs++
				assert.Equal(t, "trace-1", f.String)
			}
		}
		assert.Equal(t, 1, traceIDs, e.Message)
	}
}
