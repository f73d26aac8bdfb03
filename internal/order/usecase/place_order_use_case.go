package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/redisx"
)

const (
	OutcomePlaced   = "placed"
	OutcomeReplayed = "replayed"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

const maxIdempotencyKeyLength = 255

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}

// OrderLookup finds orders already placed under an idempotency key. It is the
// source of truth for replays; the cache only short-circuits it.
type OrderLookup interface {
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, bool, error)
}

type PlacementService interface {
	PlaceOrder(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error
}

type OrderNumberGenerator interface {
	Next(ctx context.Context) string
}

type Validator interface {
	Struct(s interface{}) error
}

type Metrics interface {
	ObserveOrder(outcome string)
}

type Options struct {
	Currency       string
	IdempotencyTTL time.Duration
	MaxQuantity    int
}

type PlaceOrderUseCase struct {
	products  ProductFinder
	orders    OrderLookup
	placement PlacementService
	numbers   OrderNumberGenerator
	validator Validator
	cache     cache.Cache
	metrics   Metrics
	logger    *zap.Logger
	opts      Options

	newID func() string
	now   func() time.Time
}

func NewPlaceOrderUseCase(
	products ProductFinder,
	orders OrderLookup,
	placement PlacementService,
	numbers OrderNumberGenerator,
	validator Validator,
	c cache.Cache,
	metrics Metrics,
	logger *zap.Logger,
	opts Options,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		products:  products,
		orders:    orders,
		placement: placement,
		numbers:   numbers,
		validator: validator,
		cache:     c,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
	result, err := uc.placeOrder(ctx, req)
	switch {
	case err == nil && result.Replayed:
		uc.metrics.ObserveOrder(OutcomeReplayed)
	case err == nil:
		uc.metrics.ObserveOrder(OutcomePlaced)
	case isRejection(err):
		uc.metrics.ObserveOrder(OutcomeRejected)
	default:
		uc.metrics.ObserveOrder(OutcomeFailed)
	}
	return result, err
}

func (uc *PlaceOrderUseCase) placeOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}
	if uc.opts.MaxQuantity > 0 && req.Quantity > uc.opts.MaxQuantity {
		return nil, apperrors.NewValidationError("Validation failed", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: fmt.Sprintf("must be at most %d", uc.opts.MaxQuantity),
		})
	}

	if req.IdempotencyKey != "" {
		if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
			return nil, apperrors.NewValidationError("Validation failed", apperrors.ValidationDetail{
				Field:   "Idempotency-Key",
				Message: fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLength),
			})
		}
		if previous, ok := uc.replay(ctx, req.IdempotencyKey); ok {
			return previous, nil
		}
	}

	product, err := uc.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError("Product not found")
		}
		return nil, err
	}

	// early exit only; the conditional decrement is what enforces stock
	if !product.CanFulfil(req.Quantity) {
		return nil, apperrors.NewInsufficientStockError(product.ID, req.Quantity, product.StockQuantity)
	}

	order := uc.buildOrder(ctx, req, *product)
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		order.IdempotencyKey = &key
	}
	item := domain.NewOrderItem(order.ID, *product, req.Quantity)
	item.ID = uc.newID()

	event := dto.OrderPlacedEvent{
		EventID:     uc.newID(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		TotalAmount: order.TotalAmount.StringFixed(2),
		Currency:    order.Currency,
		OccurredAt:  uc.now().UTC(),
	}

	if err := uc.placement.PlaceOrder(ctx, order, item, event); err != nil {
		if !errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			return nil, err
		}
		// a concurrent request with the same key committed first
		if previous, ok := uc.replay(ctx, req.IdempotencyKey); ok {
			return previous, nil
		}
		return nil, apperrors.NewOrderCreationError("failed to load order for idempotency key", err)
	}

	result := resultFor(order)
	if req.IdempotencyKey != "" {
		uc.remember(ctx, req.IdempotencyKey, result)
	}

	uc.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("totalAmount", order.TotalAmount.StringFixed(2)),
	)
	return result, nil
}

// replay returns the order already placed under key, checking the cache
// before the orders table.
func (uc *PlaceOrderUseCase) replay(ctx context.Context, key string) (*dto.PlaceOrderResult, bool) {
	log := uc.logger.With(zap.String("idempotencyKey", key))

	var previous dto.PlaceOrderResult
	hit, err := uc.cache.Get(ctx, fmt.Sprintf(redisx.KeyIdemOrderCreate, key), &previous)
	if err != nil {
		log.Warn("idempotency cache lookup failed", zap.Error(err))
	}

	if !hit {
		order, found, err := uc.orders.FindByIdempotencyKey(ctx, key)
		if err != nil {
			log.Warn("idempotency lookup failed", zap.Error(err))
			return nil, false
		}
		if !found {
			return nil, false
		}
		previous = *resultFor(*order)
		uc.remember(ctx, key, &previous)
	}

	log.Info("replaying order for idempotency key", zap.String("orderNumber", previous.OrderNumber))
	previous.Replayed = true
	return &previous, true
}

func (uc *PlaceOrderUseCase) remember(ctx context.Context, key string, result *dto.PlaceOrderResult) {
	ttl := uc.opts.IdempotencyTTL
	if ttl <= 0 {
		ttl = redisx.TTLIdempotency
	}
	if err := uc.cache.Set(ctx, fmt.Sprintf(redisx.KeyIdemOrderCreate, key), result, ttl); err != nil {
		uc.logger.Warn("failed to store idempotency result", zap.String("idempotencyKey", key), zap.Error(err))
	}
}

func resultFor(order domain.Order) *dto.PlaceOrderResult {
	return &dto.PlaceOrderResult{
		OrderNumber: order.OrderNumber,
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount.InexactFloat64(),
	}
}

func (uc *PlaceOrderUseCase) buildOrder(ctx context.Context, req dto.PlaceOrderRequest, product domain.Product) domain.Order {
	subtotal := product.BasePrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	tax := decimal.Zero
	shipping := decimal.Zero
	discount := decimal.Zero

	addr := req.ShippingAddress
	return domain.Order{
		ID:                    uc.newID(),
		OrderNumber:           uc.numbers.Next(ctx),
		GuestEmail:            req.Customer.Email,
		Status:                domain.OrderStatusPending,
		PaymentStatus:         domain.PaymentStatusPending,
		Subtotal:              subtotal,
		TaxAmount:             tax,
		ShippingAmount:        shipping,
		DiscountAmount:        discount,
		TotalAmount:           subtotal.Add(tax).Add(shipping).Sub(discount),
		Currency:              uc.opts.Currency,
		ShippingName:          req.Customer.Name,
		ShippingEmail:         req.Customer.Email,
		ShippingPhone:         req.Customer.Phone,
		ShippingAddressLine1:  addr.Line1,
		ShippingAddressLine2:  emptyToNil(addr.Line2),
		ShippingCity:          addr.City,
		ShippingState:         addr.State,
		ShippingPostalCode:    addr.PostalCode,
		ShippingCountry:       addr.Country,
		BillingSameAsShipping: true,
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func isRejection(err error) bool {
	if _, ok := apperrors.IsValidationError(err); ok {
		return true
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return true
	}
	_, ok := apperrors.IsInsufficientStockError(err)
	return ok
}
