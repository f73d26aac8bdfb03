package cart

import (
	"database/sql"

	"go.uber.org/zap"

	productrepo "storefront/internal/product/repository"
	"storefront/internal/session"
	"storefront/internal/validation"
)

func NewModule(db *sql.DB, store session.Store, validator *validation.Validator, logger *zap.Logger) *Controller {
	products := productrepo.NewMySQLRepository(db)
	svc := NewService(store, products, validator, logger)
	return NewController(svc, logger)
}
