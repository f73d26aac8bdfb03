package category

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/cache"
)

func NewModule(db *sql.DB, c cache.Cache, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	uc := NewUseCase(repo, c, logger)
	return NewController(uc, logger)
}
