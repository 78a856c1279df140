package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
)

// CatalogSyncScheduler refreshes the catalog from the fulfillment provider on
// a cron schedule.
type CatalogSyncScheduler struct {
	cron           *cron.Cron
	catalogService service.CatalogService
	schedule       string
}

func NewCatalogSyncScheduler(catalogService service.CatalogService, schedule string) *CatalogSyncScheduler {
	return &CatalogSyncScheduler{
		cron:           cron.New(),
		catalogService: catalogService,
		schedule:       schedule,
	}
}

func (s *CatalogSyncScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled catalog sync", nil)

		summary, err := s.catalogService.Sync(context.Background())
		if err != nil {
			logger.Error("Scheduled catalog sync failed", err)
			return
		}

		logger.Info("Scheduled catalog sync finished", map[string]interface{}{
			"listed":   summary.Listed,
			"imported": summary.Imported,
			"skipped":  summary.Skipped,
		})
	})
	if err != nil {
		logger.Error("Failed to register catalog sync cron job", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog sync scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *CatalogSyncScheduler) Stop() {
	logger.Info("Stopping catalog sync scheduler...", nil)
	s.cron.Stop()
	logger.Info("Catalog sync scheduler stopped", nil)
}
