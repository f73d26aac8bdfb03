package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

const (
	defaultPage        = 1
	defaultLimit       = 20
	defaultSearchLimit = 20
	defaultSort        = "newest"
)

type CatalogUseCase interface {
	ListProducts(ctx context.Context, q dto.ListProductsQuery) (*dto.ListProductsResponse, error)
	GetProductByID(ctx context.Context, id string) (*dto.ProductDetailDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*dto.ProductDetailDTO, error)
	Search(ctx context.Context, q dto.SearchQuery) (*dto.SearchResponse, error)
	Autocomplete(ctx context.Context, q dto.SearchQuery) ([]dto.AutocompleteDTO, error)
}

type CatalogController struct {
	useCase CatalogUseCase
	logger  *zap.Logger
}

func NewCatalogController(useCase CatalogUseCase, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	q, err := parseListQuery(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	resp, err := c.useCase.ListProducts(r.Context(), q)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to fetch products", c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *CatalogController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	product, err := c.useCase.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, traceID, err, "Internal server error", c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, product, c.logger)
}

func (c *CatalogController) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	product, err := c.useCase.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.WriteError(w, traceID, err, "Internal server error", c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, product, c.logger)
}

func (c *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	q, err := parseSearchQuery(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	resp, err := c.useCase.Search(r.Context(), q)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Search failed", c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *CatalogController) Autocomplete(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	q, err := parseSearchQuery(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	resp, err := c.useCase.Autocomplete(r.Context(), q)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Autocomplete failed", c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp, c.logger)
}

type queryParser struct {
	values  map[string][]string
	details []apperrors.ValidationDetail
}

func (p *queryParser) str(name string) string {
	if v := p.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (p *queryParser) intParam(name string, def int) int {
	raw := p.str(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.details = append(p.details, apperrors.ValidationDetail{Field: name, Message: "must be an integer"})
		return def
	}
	return n
}

func (p *queryParser) floatParam(name string) *float64 {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.details = append(p.details, apperrors.ValidationDetail{Field: name, Message: "must be a number"})
		return nil
	}
	return &f
}

func (p *queryParser) err() error {
	if len(p.details) == 0 {
		return nil
	}
	return apperrors.NewValidationError("Validation failed", p.details...)
}

func parseListQuery(r *http.Request) (dto.ListProductsQuery, error) {
	p := &queryParser{values: r.URL.Query()}

	q := dto.ListProductsQuery{
		Page:     p.intParam("page", defaultPage),
		Limit:    p.intParam("limit", defaultLimit),
		Category: p.str("category"),
		MinPrice: p.floatParam("minPrice"),
		MaxPrice: p.floatParam("maxPrice"),
		Sort:     p.str("sort"),
	}
	if q.Sort == "" {
		q.Sort = defaultSort
	}
	return q, p.err()
}

func parseSearchQuery(r *http.Request) (dto.SearchQuery, error) {
	p := &queryParser{values: r.URL.Query()}

	q := dto.SearchQuery{
		Q:     p.str("q"),
		Limit: p.intParam("limit", defaultSearchLimit),
	}
	return q, p.err()
}
