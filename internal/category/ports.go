package category

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type UseCase interface {
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	GetCategory(ctx context.Context, slug string) (*dto.CategoryDTO, error)
}

type Repository interface {
	FindActive(ctx context.Context) ([]domain.Category, error)
	FindActiveBySlug(ctx context.Context, slug string) (*domain.Category, error)
}
