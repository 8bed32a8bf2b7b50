package httpapi

import (
	"net/http"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/middleware"
	"farmlink-be/internal/order"
	"farmlink-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	SecretKey []byte

	CartService    cart.Service
	OrderService   order.Service
	CatalogService catalog.Service
	UserService    user.Service
}

// NewRouter assembles the API surface. Auth runs before rate limiting so
// authenticated callers are limited per user rather than per IP.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AuthMiddleware(cfg.SecretKey))
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", NewCartHandler(cfg.CartService).Routes)
		r.Route("/orders", NewOrderHandler(cfg.OrderService).Routes)
		r.Route("/products", NewProductHandler(cfg.CatalogService).Routes)
		r.Route("/users", NewUserHandler(cfg.UserService).Routes)
	})

	return r
}
