package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/httpx"
)

type Controller struct {
	useCase UseCase
	logger  *zap.Logger
}

func NewController(useCase UseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.useCase.ListCategories(r.Context())
	if err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to fetch categories", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, categories, c.logger)
}

func (c *Controller) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := c.useCase.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Internal server error", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, category, c.logger)
}
