package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportiva/storefront-api/api/controllers"
	"github.com/sportiva/storefront-api/api/middleware"
	"github.com/sportiva/storefront-api/internal/cart"
	"github.com/sportiva/storefront-api/internal/catalog"
	checkoutsvc "github.com/sportiva/storefront-api/internal/checkout"
	"github.com/sportiva/storefront-api/internal/receipts"
	"github.com/sportiva/storefront-api/pkg/config"
	"github.com/sportiva/storefront-api/pkg/db"
	"github.com/sportiva/storefront-api/pkg/logger"
	"github.com/sportiva/storefront-api/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	receiptService receipts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.With(middleware.Session(logg)).Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logg))

		r.Get("/products/{productID}", controllers.GetProduct(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Patch("/items/{productID}", controllers.UpdateCartItem(cartService, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", controllers.ListReceipts(receiptService, logg))
			r.Get("/{saleNumber}/download", controllers.DownloadReceipt(receiptService, logg))
		})
	})

	return r
}
