package admin

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/admin/controller"
	"storefront/internal/admin/usecase"
	"storefront/internal/config"
	orderrepo "storefront/internal/order/repository"
	productrepo "storefront/internal/product/repository"
	"storefront/internal/validation"
)

func NewModule(
	db *sql.DB,
	cfg config.AdminConfig,
	images usecase.ImageStore,
	validator *validation.Validator,
	logger *zap.Logger,
) *controller.AdminController {
	uc := usecase.NewAdminUseCase(
		db,
		productrepo.NewMySQLRepository(db),
		orderrepo.NewMySQLOrderRepository(db),
		images,
		validator,
		cfg,
		logger,
	)
	return controller.NewAdminController(uc, logger)
}
