package controller

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/dto"
	"storefront/internal/httpx"
)

const IdempotencyHeader = "Idempotency-Key"

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error)
}

type OrderController struct {
	useCase PlaceOrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase PlaceOrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var req dto.PlaceOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get(IdempotencyHeader))

	result, err := c.useCase.PlaceOrder(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Internal server error", c.logger)
		return
	}

	if result.Replayed {
		c.logger.Info("order request replayed", zap.String("traceId", traceID), zap.String("orderNumber", result.OrderNumber))
	}

	httpx.WriteJSON(w, http.StatusOK, dto.PlaceOrderResponse{
		Success:     true,
		OrderNumber: result.OrderNumber,
		OrderID:     result.OrderID,
		TotalAmount: result.TotalAmount,
		Message:     "Order placed successfully",
	}, c.logger)
}
