package category

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/dto"
	"storefront/internal/infrastructure/redisx"
)

type useCase struct {
	repo   Repository
	cache  cache.Cache
	logger *zap.Logger
}

func NewUseCase(repo Repository, c cache.Cache, logger *zap.Logger) UseCase {
	return &useCase{repo: repo, cache: c, logger: logger}
}

// ListCategories serves the active category list from cache when possible.
// Cache failures degrade to a database read.
func (uc *useCase) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	var cached []dto.CategoryDTO
	hit, err := uc.cache.Get(ctx, redisx.KeyCategoriesAll, &cached)
	if err != nil {
		uc.logger.Warn("categories cache read failed", zap.Error(err))
	}
	if hit {
		uc.logger.Debug("categories cache hit")
		return cached, nil
	}

	categories, err := uc.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	out := dto.NewCategories(categories)
	if err := uc.cache.Set(ctx, redisx.KeyCategoriesAll, out, redisx.TTLCategories); err != nil {
		uc.logger.Warn("categories cache write failed", zap.Error(err))
	}
	return out, nil
}

func (uc *useCase) GetCategory(ctx context.Context, slug string) (*dto.CategoryDTO, error) {
	c, err := uc.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	out := dto.NewCategory(*c)
	return &out, nil
}
