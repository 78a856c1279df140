package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivan-cardenas/overlaymaps-backend/config"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/controller"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/db"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/router"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/scheduler"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/storage"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/kv"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/payment/stripecheckout"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting OverlayMaps Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Carts and shipping selections live in Redis; single-node deployments
	// can fall back to process memory.
	var store kv.Store
	if cfg.Redis.Enabled {
		store, err = kv.NewRedis(kv.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
	} else {
		logger.Warn("Redis disabled, using in-memory store", nil)
		store = kv.NewMemory()
	}

	fulfillmentClient, err := fulfillment.NewClient(fulfillment.Config{
		APIKey:  cfg.Fulfillment.APIKey,
		StoreID: cfg.Fulfillment.StoreID,
		BaseURL: cfg.Fulfillment.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to create fulfillment client", err)
	}

	gateway, err := stripecheckout.NewGateway(stripecheckout.Config{
		SecretKey:        cfg.Payment.StripeSecretKey,
		SuccessURL:       cfg.Payment.SuccessURL,
		CancelURL:        cfg.Payment.CancelURL,
		AllowedCountries: cfg.Payment.AllowedCountries,
	})
	if err != nil {
		logger.Fatal("Failed to create payment gateway", err)
	}

	var mirror service.ImageMirror
	if cfg.S3.MirrorImages {
		mirror = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	variantService := service.NewVariantService()
	catalogService := service.NewCatalogService(fulfillmentClient, productRepo, mirror, cfg.Sync.PageSize, cfg.Sync.Concurrency)
	cartService := service.NewCartService(store, productRepo, variantService)
	shippingService := service.NewShippingService(fulfillmentClient, store, cartService, productRepo)
	checkoutService := service.NewCheckoutService(gateway, cartService, shippingService, cfg.Checkout)
	orderService := service.NewOrderService(fulfillmentClient, store, cartService, productRepo)

	productController := controller.NewProductController(catalogService, variantService)
	cartController := controller.NewCartController(cartService)
	shippingController := controller.NewShippingController(shippingService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	webhookController := controller.NewWebhookController(orderService, cfg.Payment.WebhookSecret)
	adminController := controller.NewAdminController(catalogService)

	r := router.NewRouter(
		productController,
		cartController,
		shippingController,
		checkoutController,
		webhookController,
		adminController,
		cfg,
	)
	engine := r.Setup()

	var syncScheduler *scheduler.CatalogSyncScheduler
	if cfg.Sync.Schedule != "" {
		syncScheduler = scheduler.NewCatalogSyncScheduler(catalogService, cfg.Sync.Schedule)
		if err := syncScheduler.Start(); err != nil {
			logger.Fatal("Failed to start catalog sync scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if syncScheduler != nil {
		syncScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced server shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
