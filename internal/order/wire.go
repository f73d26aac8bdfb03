package order

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/infrastructure/metrics"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
	"storefront/internal/outbox"
	productrepo "storefront/internal/product/repository"
	"storefront/internal/validation"
)

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	c cache.Cache,
	validator *validation.Validator,
	m *metrics.ServerMetrics,
	logger *zap.Logger,
) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	numberRepo := orderrepo.NewMySQLOrderNumberRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)
	outboxRepo := outbox.NewMySQLRepository(db)

	placement := service.NewPlacementService(
		db,
		orderRepo,
		orderItemRepo,
		productRepo,
		outboxRepo,
		cfg.Kafka.OrderTopic,
		logger,
		cfg.Order.TxTimeout,
	)
	numbers := service.NewOrderNumberGenerator(numberRepo, cfg.Order.NumberPrefix, logger)

	uc := usecase.NewPlaceOrderUseCase(
		productRepo,
		orderRepo,
		placement,
		numbers,
		validator,
		c,
		m,
		logger,
		usecase.Options{
			Currency:       cfg.Order.Currency,
			IdempotencyTTL: cfg.Order.IdempotencyTTL,
			MaxQuantity:    cfg.Order.MaxItemQuantity,
		},
	)

	return controller.NewOrderController(uc, logger)
}
