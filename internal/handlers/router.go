package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
)

// RouterConfig collects everything the HTTP surface is built from.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	RequestTimeout time.Duration

	Health        *HealthHandler
	Products      *ProductHandler
	Coupons       *CouponHandler
	Cart          *CartHandler
	Orders        *OrderHandler
	Notifications *NotificationHandler
}

// NewRouter wires middleware and routes.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.Health.ServeHTTP)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.ListProducts)
			r.Post("/", cfg.Products.CreateProduct)
			r.Get("/{productId}", cfg.Products.GetProduct)
			r.Put("/{productId}", cfg.Products.UpdateProduct)
			r.Delete("/{productId}", cfg.Products.DeleteProduct)
			r.Put("/{productId}/stock", cfg.Products.UpdateStock)
			r.Post("/{productId}/discounts", cfg.Products.AddDiscountTier)
			r.Delete("/{productId}/discounts/{quantity}", cfg.Products.RemoveDiscountTier)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", cfg.Coupons.ListCoupons)
			r.Post("/", cfg.Coupons.CreateCoupon)
			r.Get("/applicable", cfg.Coupons.ApplicableCoupons)
			r.Get("/stats", cfg.Coupons.GetStats)
			r.Delete("/{couponCode}", cfg.Coupons.DeleteCoupon)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Put("/items/{productId}", cfg.Cart.UpdateItem)
			r.Delete("/items/{productId}", cfg.Cart.RemoveItem)
			r.Put("/coupon", cfg.Cart.SelectCoupon)
			r.Delete("/coupon", cfg.Cart.ClearCoupon)
		})

		r.Post("/orders", cfg.Orders.CreateOrder)

		r.Get("/notifications", cfg.Notifications.List)
		r.Delete("/notifications/{notificationId}", cfg.Notifications.Dismiss)
	})

	return r
}
