package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	admincontroller "storefront/internal/admin/controller"
	"storefront/internal/cart"
	"storefront/internal/category"
	"storefront/internal/config"
	"storefront/internal/httpx"
	"storefront/internal/infrastructure/metrics"
	ordercontroller "storefront/internal/order/controller"
	productcontroller "storefront/internal/product/controller"
)

const maxBodyBytes = 10 << 20

type Handlers struct {
	Catalog    *productcontroller.CatalogController
	Categories *category.Controller
	Cart       *cart.Controller
	Orders     *ordercontroller.OrderController
	Admin      *admincontroller.AdminController
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRouter(h Handlers, cfg *config.Config, m *metrics.ServerMetrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	// rate limits key on RemoteAddr, which RealIP rewrites from forwarded headers
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(traceID)
	r.Use(accessLog(logger))
	r.Use(instrument(m))
	r.Use(recoverer(logger))
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", SessionIDHeader, admincontroller.AdminKeyHeader, ordercontroller.IdempotencyHeader},
		ExposedHeaders:   []string{TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.NotFound(notFound(logger))
	r.MethodNotAllowed(notFound(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()}, logger)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	rl := cfg.RateLimit
	public := rateLimit(rl.PublicRequests, rl.PublicWindow, "Too many requests, please try again later", logger)
	search := rateLimit(rl.SearchRequests, rl.SearchWindow, "Too many search requests, please slow down", logger)
	checkout := rateLimit(rl.CheckoutRequests, rl.CheckoutWindow, "Too many checkout attempts, please try again later", logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Use(public, cacheFor(300))
			r.Get("/", h.Catalog.ListProducts)
			r.Get("/id/{id}", h.Catalog.GetProductByID)
			r.Get("/{slug}", h.Catalog.GetProductBySlug)
		})

		r.Route("/search", func(r chi.Router) {
			r.Use(search)
			r.Get("/", h.Catalog.Search)
			r.Get("/autocomplete", h.Catalog.Autocomplete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(public)
			r.With(cacheFor(3600)).Get("/", h.Categories.ListCategories)
			r.With(cacheFor(600)).Get("/{slug}", h.Categories.GetCategory)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(noStore, sessions(cfg.Session, cfg.Server.IsProduction()))
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Patch("/items/{itemId}", h.Cart.UpdateItem)
			r.Delete("/items/{itemId}", h.Cart.RemoveItem)
		})

		r.With(checkout, noStore).Post("/orders", h.Orders.PlaceOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Use(noStore)
			r.Post("/login", h.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.Admin.RequireKey)
				r.Post("/upload-image", h.Admin.UploadImage)
				r.Get("/products", h.Admin.ListProducts)
				r.Post("/products", h.Admin.CreateProduct)
				r.Put("/products/{id}", h.Admin.UpdateProduct)
				r.Delete("/products/{id}", h.Admin.DeleteProduct)
				r.Post("/products/{id}/images", h.Admin.AddProductImage)
				r.Get("/orders", h.Admin.ListOrders)
			})
		})
	})

	return r
}
