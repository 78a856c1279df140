package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
	variantService service.VariantService
}

func NewProductController(catalogService service.CatalogService, variantService service.VariantService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		variantService: variantService,
	}
}

var validCategories = map[string]model.ProductCategory{
	"apparel":    model.CategoryApparel,
	"posters":    model.CategoryPosters,
	"stickers":   model.CategoryStickers,
	"stationary": model.CategoryStationary,
	"other":      model.CategoryOther,
}

func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Country:       c.Query("country"),
		Search:        c.Query("search"),
		SortAscending: c.DefaultQuery("order", "asc") != "desc",
	}

	if raw := c.Query("category"); raw != "" {
		category, ok := validCategories[raw]
		if !ok {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "unknown category")
			return
		}
		filter.Category = &category
	}

	switch c.Query("sort") {
	case "price":
		filter.SortBy = repository.ProductSortPrice
	case "synced_at":
		filter.SortBy = repository.ProductSortSyncedAt
	default:
		filter.SortBy = repository.ProductSortName
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	products, err := ctrl.catalogService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	product, err := ctrl.catalogService.GetProductBySlug(slug)
	if err != nil {
		log.Warn("Product not found", map[string]interface{}{"slug": slug})
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "product not found")
		return
	}

	response := gin.H{
		"product":         product,
		"primary_options": ctrl.variantService.PrimaryOptions(product),
	}
	if auto := ctrl.variantService.AutoSelect(product); auto != nil {
		response["auto_selected"] = auto
		response["display_image"] = ctrl.variantService.DisplayImage(product, auto)
	}
	c.JSON(http.StatusOK, response)
}

// SelectPrimaryOption resolves one primary option label for a product. The
// response either auto-selects a variant or lists the secondary choices.
func (ctrl *ProductController) SelectPrimaryOption(c *gin.Context) {
	product, err := ctrl.catalogService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "product not found")
		return
	}

	selection, err := ctrl.variantService.SelectPrimary(product, c.Param("label"))
	if err != nil {
		apperrors.NotFound(c, apperrors.CatalogOptionNotFound, "option not found")
		return
	}

	response := gin.H{}
	if selection.AutoSelected != nil {
		response["auto_selected"] = selection.AutoSelected
		response["display_image"] = ctrl.variantService.DisplayImage(product, selection.AutoSelected)
	} else {
		response["secondary_options"] = selection.SecondaryOptions
	}
	c.JSON(http.StatusOK, response)
}

// SelectVariant resolves a concrete variant within the primary group given by
// the "primary" query parameter.
func (ctrl *ProductController) SelectVariant(c *gin.Context) {
	product, err := ctrl.catalogService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "product not found")
		return
	}

	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid variant id")
		return
	}

	variant, err := ctrl.variantService.SelectSecondary(product, c.Query("primary"), uint(variantID))
	if err != nil {
		apperrors.NotFound(c, apperrors.CatalogVariantNotFound, "variant not found in group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant":       variant,
		"display_image": ctrl.variantService.DisplayImage(product, variant),
	})
}
