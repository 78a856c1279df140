package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
)

type AdminController struct {
	catalogService service.CatalogService
}

func NewAdminController(catalogService service.CatalogService) *AdminController {
	return &AdminController{catalogService: catalogService}
}

// TriggerSync runs a full catalog sync inline and reports the summary. Syncs
// are serialized by the service, so a second trigger waits for the first.
func (ctrl *AdminController) TriggerSync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	summary, err := ctrl.catalogService.Sync(c.Request.Context())
	if err != nil {
		log.Error("Manual catalog sync failed", err, nil)
		apperrors.BadGateway(c, apperrors.CatalogSyncFailed, "catalog sync failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listed":   summary.Listed,
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"duration": summary.Duration.String(),
	})
}

// ExportCatalog streams the catalog as an xlsx workbook.
func (ctrl *AdminController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.catalogService.ExportCatalog()
	if err != nil {
		log.Error("Catalog export failed", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.CatalogExportFailed, "catalog export failed")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
