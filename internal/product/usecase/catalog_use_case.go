package usecase

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

const autocompleteLimit = 10

type Repository interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Product, error)
	Autocomplete(ctx context.Context, q string, limit int) ([]domain.Product, error)
	FindPublishedByID(ctx context.Context, id string) (*domain.Product, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type Validator interface {
	Struct(s interface{}) error
}

type CatalogUseCase struct {
	repo      Repository
	validator Validator
	logger    *zap.Logger
}

func NewCatalogUseCase(repo Repository, validator Validator, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

func (uc *CatalogUseCase) ListProducts(ctx context.Context, q dto.ListProductsQuery) (*dto.ListProductsResponse, error) {
	if err := uc.validator.Struct(q); err != nil {
		return nil, err
	}

	filter := domain.ProductFilter{
		Page:         q.Page,
		Limit:        q.Limit,
		CategorySlug: q.Category,
		Sort:         q.Sort,
	}
	if q.MinPrice != nil {
		v := decimal.NewFromFloat(*q.MinPrice)
		filter.MinPrice = &v
	}
	if q.MaxPrice != nil {
		v := decimal.NewFromFloat(*q.MaxPrice)
		filter.MaxPrice = &v
	}

	products, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Data: dto.NewProductSummaries(products),
		Pagination: dto.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}, nil
}

func (uc *CatalogUseCase) GetProductByID(ctx context.Context, id string) (*dto.ProductDetailDTO, error) {
	p, err := uc.repo.FindPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := dto.NewProductDetail(*p)
	return &detail, nil
}

func (uc *CatalogUseCase) GetProductBySlug(ctx context.Context, slug string) (*dto.ProductDetailDTO, error) {
	p, err := uc.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail := dto.NewProductDetail(*p)
	return &detail, nil
}

func (uc *CatalogUseCase) Search(ctx context.Context, q dto.SearchQuery) (*dto.SearchResponse, error) {
	if err := uc.validator.Struct(q); err != nil {
		return nil, err
	}

	products, err := uc.repo.Search(ctx, q.Q, q.Limit)
	if err != nil {
		return nil, err
	}

	results := dto.NewProductSummaries(products)
	return &dto.SearchResponse{
		Query:   q.Q,
		Results: results,
		Count:   len(results),
	}, nil
}

// Autocomplete suggests up to ten published products by name.
func (uc *CatalogUseCase) Autocomplete(ctx context.Context, q dto.SearchQuery) ([]dto.AutocompleteDTO, error) {
	if err := uc.validator.Struct(q); err != nil {
		return nil, err
	}

	products, err := uc.repo.Autocomplete(ctx, q.Q, autocompleteLimit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AutocompleteDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.AutocompleteDTO{Name: p.Name, Brand: p.Brand, Slug: p.Slug})
	}
	return out, nil
}
