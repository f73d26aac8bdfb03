package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/httpx"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, req dto.AddCartItemRequest) (domain.Cart, error)
	UpdateItem(ctx context.Context, sessionID, itemID string, req dto.UpdateCartItemRequest) (domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type Controller struct {
	service CartService
	logger  *zap.Logger
}

func NewController(service CartService, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := c.service.GetCart(r.Context(), httpx.SessionID(r.Context()))
	if err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to get cart", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cart, c.logger)
}

func (c *Controller) AddItem(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var req dto.AddCartItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	cart, err := c.service.AddItem(r.Context(), httpx.SessionID(r.Context()), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to add to cart", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cart, c.logger)
}

func (c *Controller) UpdateItem(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var req dto.UpdateCartItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	cart, err := c.service.UpdateItem(r.Context(), httpx.SessionID(r.Context()), chi.URLParam(r, "itemId"), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to update cart item", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cart, c.logger)
}

func (c *Controller) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := c.service.RemoveItem(r.Context(), httpx.SessionID(r.Context()), chi.URLParam(r, "itemId"))
	if err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to remove cart item", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cart, c.logger)
}

func (c *Controller) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Clear(r.Context(), httpx.SessionID(r.Context())); err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to clear cart", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Cart cleared"}, c.logger)
}
