package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error
}

type StockRepository interface {
	DecrementStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) error
}

type OutboxRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, eventID, topic, key string, payload interface{}) error
}

type PlacementService struct {
	db            TransactionManager
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	stockRepo     StockRepository
	outboxRepo    OutboxRepository
	topic         string
	logger        *zap.Logger
	txTimeout     time.Duration
}

func NewPlacementService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	stockRepo StockRepository,
	outboxRepo OutboxRepository,
	topic string,
	logger *zap.Logger,
	txTimeout time.Duration,
) *PlacementService {
	return &PlacementService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		stockRepo:     stockRepo,
		outboxRepo:    outboxRepo,
		topic:         topic,
		logger:        logger,
		txTimeout:     txTimeout,
	}
}

// PlaceOrder writes the order, its line, the stock decrement and the outbox
// event in one transaction. Any failure rolls all of them back.
func (s *PlacementService) PlaceOrder(ctx context.Context, order domain.Order, item domain.OrderItem, event dto.OrderPlacedEvent) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return apperrors.NewOrderCreationError("failed to begin transaction", err)
	}
	// no-op after a successful commit
	defer tx.Rollback()

	log := s.logger.With(zap.String("orderId", order.ID), zap.String("orderNumber", order.OrderNumber))

	if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			log.Info("order already placed for idempotency key")
			return err
		}
		log.Error("failed to create order", zap.Error(err))
		return apperrors.NewOrderCreationError("failed to create order", err)
	}

	if err := s.orderItemRepo.Insert(txCtx, tx, item); err != nil {
		log.Error("failed to create order item, rolling back order", zap.Error(err))
		return apperrors.NewOrderCreationError("failed to create order item", err)
	}

	if err := s.stockRepo.DecrementStock(txCtx, tx, item.ProductID, item.Quantity); err != nil {
		if _, ok := apperrors.IsInsufficientStockError(err); ok {
			log.Warn("stock taken by a concurrent order", zap.String("productId", item.ProductID), zap.Int("quantity", item.Quantity))
			return err
		}
		log.Error("failed to decrement stock", zap.Error(err))
		return apperrors.NewOrderCreationError("failed to decrement stock", err)
	}

	if err := s.outboxRepo.Insert(txCtx, tx, event.EventID, s.topic, order.ID, event); err != nil {
		log.Error("failed to record order event", zap.Error(err))
		return apperrors.NewOrderCreationError("failed to record order event", err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order", zap.Error(err))
		return apperrors.NewOrderCreationError("failed to commit order", err)
	}

	log.Info("order committed", zap.String("productId", item.ProductID), zap.Int("quantity", item.Quantity))
	return nil
}
