package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/sportiva/storefront-api/api/routes"
	"github.com/sportiva/storefront-api/internal/cart"
	"github.com/sportiva/storefront-api/internal/catalog"
	checkoutsvc "github.com/sportiva/storefront-api/internal/checkout"
	"github.com/sportiva/storefront-api/internal/receipts"
	"github.com/sportiva/storefront-api/pkg/config"
	"github.com/sportiva/storefront-api/pkg/db"
	"github.com/sportiva/storefront-api/pkg/db/models"
	"github.com/sportiva/storefront-api/pkg/logger"
	"github.com/sportiva/storefront-api/pkg/payment"
	"github.com/sportiva/storefront-api/pkg/redis"
	"github.com/sportiva/storefront-api/pkg/sales"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Append(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing backing stores", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(&models.ReceiptRecord{}); err != nil {
			logg.Error(context.Background(), "failed to run auto-migration", err)
			os.Exit(1)
		}
	}

	catalogClient, err := catalog.NewClient(cfg.Catalog, logg, catalog.WithInventoryCache(redisClient))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartStore, catalogClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	salesClient, err := sales.NewClient(cfg.Sales)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales client", err)
		os.Exit(1)
	}

	receiptService, err := receipts.NewService(cfg.Receipts, receipts.NewRepository(dbClient.DB()), receipts.NewGenerator(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipts service", err)
		os.Exit(1)
	}

	locker, err := checkoutsvc.NewRedisLocker(redisClient, cfg.Checkout.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout locker", err)
		os.Exit(1)
	}

	var redirector payment.Redirector
	if cfg.Payment.RedirectURL != "" {
		hosted, err := payment.NewHostedPage(cfg.Payment)
		if err != nil {
			logg.Error(context.Background(), "failed to create payment redirector", err)
			os.Exit(1)
		}
		redirector = hosted
	}

	checkoutService, err := checkoutsvc.NewService(cartService, salesClient, receiptService, locker, redirector, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, catalogClient, cartService, checkoutService, receiptService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
