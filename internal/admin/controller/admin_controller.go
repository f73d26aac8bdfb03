package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/httpx"
)

const AdminKeyHeader = "X-Admin-Key"

type AdminUseCase interface {
	Authorize(key string) error
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	UploadImage(ctx context.Context, req dto.UploadImageRequest) (*dto.UploadImageResponse, error)
	CreateProduct(ctx context.Context, in dto.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in dto.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddProductImage(ctx context.Context, productID string, req dto.AddProductImageRequest) (*domain.ProductImage, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type AdminController struct {
	useCase AdminUseCase
	logger  *zap.Logger
}

func NewAdminController(useCase AdminUseCase, logger *zap.Logger) *AdminController {
	return &AdminController{
		useCase: useCase,
		logger:  logger,
	}
}

// RequireKey rejects requests whose X-Admin-Key does not match the
// configured secret.
func (c *AdminController) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := c.useCase.Authorize(r.Header.Get(AdminKeyHeader)); err != nil {
			httpx.WriteError(w, httpx.TraceID(r.Context()), err, "", c.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var req dto.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	resp, err := c.useCase.Login(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Login failed", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *AdminController) UploadImage(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var req dto.UploadImageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	resp, err := c.useCase.UploadImage(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to upload image", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *AdminController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.useCase.ListProducts(r.Context())
	if err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to fetch products", c.logger)
		return
	}

	out := make([]dto.ProductDetailDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductDetail(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out, c.logger)
}

func (c *AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var in dto.ProductInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	product, err := c.useCase.CreateProduct(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to create product", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.ProductMutationResponse{Success: true, Product: dto.NewProductDetail(*product)}, c.logger)
}

func (c *AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var in dto.ProductInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	product, err := c.useCase.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to update product", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.ProductMutationResponse{Success: true, Product: dto.NewProductDetail(*product)}, c.logger)
}

func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := c.useCase.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to delete product", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "Product deleted successfully"}, c.logger)
}

func (c *AdminController) AddProductImage(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.TraceID(r.Context())

	var req dto.AddProductImageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, "", c.logger)
		return
	}

	img, err := c.useCase.AddProductImage(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, traceID, err, "Failed to upload image", c.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.AddProductImageResponse{Success: true, Image: dto.NewProductImage(*img)}, c.logger)
}

func (c *AdminController) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.useCase.ListOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, httpx.TraceID(r.Context()), err, "Failed to fetch orders", c.logger)
		return
	}

	out := make([]dto.AdminOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.NewAdminOrder(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out, c.logger)
}
