package product

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/product/controller"
	"storefront/internal/product/repository"
	"storefront/internal/product/usecase"
	"storefront/internal/validation"
)

func NewModule(db *sql.DB, validator *validation.Validator, logger *zap.Logger) *controller.CatalogController {
	repo := repository.NewMySQLRepository(db)
	uc := usecase.NewCatalogUseCase(repo, validator, logger)
	return controller.NewCatalogController(uc, logger)
}
