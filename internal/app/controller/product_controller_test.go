package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/db"
)

func strPtr(s string) *string { return &s }

func seedCatalog(t *testing.T, gormDB *gorm.DB) {
	t.Helper()

	products := []model.Product{
		{
			Name: "Overlay Tee", Slug: "overlay-tee-1",
			ThumbnailURL: "https://img.example.com/tee-thumb.png",
			Category:     model.CategoryApparel, Country: "Netherlands",
			MinPrice: 24.5, MaxPrice: 26, Currency: "EUR",
			Variants: []model.Variant{
				{ID: 11, CatalogVariantID: 9011, Name: "Overlay Tee - Black / M", Price: 24.5, Currency: "EUR", PrimaryOption: "Black", SecondaryOption: strPtr("M"), Available: true, Position: 0},
				{ID: 12, CatalogVariantID: 9012, Name: "Overlay Tee - Black / L", Price: 24.5, Currency: "EUR", PrimaryOption: "Black", SecondaryOption: strPtr("L"), Available: true, Position: 1},
				{ID: 13, CatalogVariantID: 9013, Name: "Overlay Tee - White / M", Price: 26, Currency: "EUR", PrimaryOption: "White", SecondaryOption: strPtr("M"), Available: true, Position: 2},
			},
		},
		{
			Name: "World Currents Sticker", Slug: "world-currents-sticker-2",
			Category: model.CategoryStickers, Country: "World",
			MinPrice: 4, MaxPrice: 4, Currency: "EUR",
			Variants: []model.Variant{
				{ID: 21, CatalogVariantID: 9021, Name: "World Currents Sticker", Price: 4, Currency: "EUR", PrimaryOption: "Default", Available: true, Position: 0},
			},
		},
	}
	require.NoError(t, gormDB.Create(&products).Error)
}

func setupProductControllerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(gormDB) })
	seedCatalog(t, gormDB)

	productRepo := repository.NewProductRepository(gormDB)
	variantService := service.NewVariantService()
	catalogService := service.NewCatalogService(nil, productRepo, nil, 20, 2)

	ctrl := NewProductController(catalogService, variantService)

	router := gin.New()
	router.GET("/products", ctrl.ListProducts)
	router.GET("/products/:slug", ctrl.GetProductBySlug)
	router.GET("/products/:slug/options/:label", ctrl.SelectPrimaryOption)
	router.GET("/products/:slug/variants/:variant_id", ctrl.SelectVariant)
	return router
}

func TestProductController_ListProducts(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?category=apparel", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []model.Product `json:"products"`
		Count    int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Overlay Tee", resp.Products[0].Name)
}

func TestProductController_ListProducts_BadCategory(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?category=gadgets", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_INPUT")
}

func TestProductController_GetProductBySlug(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/overlay-tee-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Product        model.Product `json:"product"`
		PrimaryOptions []string      `json:"primary_options"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Overlay Tee", resp.Product.Name)
	assert.Equal(t, []string{"Black", "White"}, resp.PrimaryOptions)
}

func TestProductController_GetProductBySlug_NotFound(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_PRODUCT_NOT_FOUND")
}

func TestProductController_SelectPrimaryOption(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/overlay-tee-1/options/Black", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SecondaryOptions []model.Variant `json:"secondary_options"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.SecondaryOptions, 2)
	assert.Equal(t, uint(11), resp.SecondaryOptions[0].ID)
}

func TestProductController_SelectPrimaryOption_AutoSelected(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/world-currents-sticker-2/options/Default", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AutoSelected *model.Variant `json:"auto_selected"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.AutoSelected)
	assert.Equal(t, uint(21), resp.AutoSelected.ID)
}

func TestProductController_SelectVariant(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/overlay-tee-1/variants/12?primary=Black", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Variant      model.Variant `json:"variant"`
		DisplayImage string        `json:"display_image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(12), resp.Variant.ID)
	assert.Equal(t, "https://img.example.com/tee-thumb.png", resp.DisplayImage)
}

func TestProductController_SelectVariant_WrongGroup(t *testing.T) {
	router := setupProductControllerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/overlay-tee-1/variants/13?primary=Black", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_VARIANT_NOT_FOUND")
}
