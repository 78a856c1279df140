// One-shot catalog sync, for cron-less deployments and manual refreshes.
package main

import (
	"context"
	"os"

	"github.com/ivan-cardenas/overlaymaps-backend/config"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/db"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/storage"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:  "info",
		Format: "console",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	fulfillmentClient, err := fulfillment.NewClient(fulfillment.Config{
		APIKey:  cfg.Fulfillment.APIKey,
		StoreID: cfg.Fulfillment.StoreID,
		BaseURL: cfg.Fulfillment.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to create fulfillment client", err)
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
	catalogService := service.NewCatalogService(fulfillmentClient, productRepo, mirror, cfg.Sync.PageSize, cfg.Sync.Concurrency)

	summary, err := catalogService.Sync(context.Background())
	if err != nil {
		logger.Error("Catalog sync failed", err)
		os.Exit(1)
	}

	logger.Info("Catalog sync complete", map[string]interface{}{
		"listed":   summary.Listed,
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"duration": summary.Duration.String(),
	})
}
