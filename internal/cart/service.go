package cart

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/session"
)

// maxLineQuantity matches the 1..99 bound on add and update requests.
const maxLineQuantity = 99

type ProductFinder interface {
	FindForCart(ctx context.Context, id string) (*domain.Product, error)
}

type Validator interface {
	Struct(s interface{}) error
}

type Service struct {
	store     session.Store
	products  ProductFinder
	validator Validator
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(store session.Store, products ProductFinder, validator Validator, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		products:  products,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// GetCart returns the stored cart, or a fresh empty one.
func (s *Service) GetCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	cart, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !ok {
		cart = domain.Cart{UpdatedAt: s.now().UnixMilli()}
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}

// AddItem adds quantity of a product to the cart, merging with an existing
// line for the same product and variant. The merged quantity must still be
// covered by stock.
func (s *Service) AddItem(ctx context.Context, sessionID string, req dto.AddCartItemRequest) (domain.Cart, error) {
	if err := s.validator.Struct(req); err != nil {
		return domain.Cart{}, err
	}

	product, err := s.products.FindForCart(ctx, req.ProductID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	now := s.now()
	idx := cart.FindLine(req.ProductID, req.VariantID)

	wanted := req.Quantity
	if idx >= 0 {
		wanted += cart.Items[idx].Quantity
	}
	if wanted > maxLineQuantity {
		return domain.Cart{}, apperrors.NewValidationError("Validation failed", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: fmt.Sprintf("must be at most %d in total for this item", maxLineQuantity),
		})
	}
	if !product.CanFulfil(wanted) {
		return domain.Cart{}, apperrors.NewInsufficientStockError(product.ID, wanted, product.StockQuantity)
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = wanted
	} else {
		variant := "base"
		if req.VariantID != nil {
			variant = *req.VariantID
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ID:        fmt.Sprintf("%s-%s-%d", req.ProductID, variant, now.UnixMilli()),
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Name:      product.Name,
			Price:     product.BasePrice.InexactFloat64(),
			Quantity:  req.Quantity,
			Image:     product.PrimaryImage(),
		})
	}

	return s.save(ctx, sessionID, cart, now)
}

func (s *Service) UpdateItem(ctx context.Context, sessionID, itemID string, req dto.UpdateCartItemRequest) (domain.Cart, error) {
	if err := s.validator.Struct(req); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}

	idx := cart.FindItem(itemID)
	if idx < 0 {
		return domain.Cart{}, apperrors.NewNotFoundError("Item not found in cart")
	}
	cart.Items[idx].Quantity = req.Quantity

	return s.save(ctx, sessionID, cart, s.now())
}

// RemoveItem drops a line. Unknown item ids leave the cart unchanged apart
// from its timestamp.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.RemoveItem(itemID)

	return s.save(ctx, sessionID, cart, s.now())
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) save(ctx context.Context, sessionID string, cart domain.Cart, now time.Time) (domain.Cart, error) {
	cart.UpdatedAt = now.UnixMilli()
	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}
