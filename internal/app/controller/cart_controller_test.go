package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/db"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/kv"
)

func setupCartControllerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(gormDB) })
	seedCatalog(t, gormDB)

	productRepo := repository.NewProductRepository(gormDB)
	cartService := service.NewCartService(kv.NewMemory(), productRepo, service.NewVariantService())
	ctrl := NewCartController(cartService)

	router := gin.New()
	cart := router.Group("/cart", middleware.CartTokenMiddleware())
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("/items", ctrl.AddLine)
		cart.PUT("/items/:variant_id", ctrl.SetQuantity)
		cart.DELETE("/items/:variant_id", ctrl.RemoveLine)
		cart.DELETE("", ctrl.ClearCart)
	}
	return router
}

type cartEnvelope struct {
	Cart     model.Cart `json:"cart"`
	Count    int        `json:"count"`
	Subtotal float64    `json:"subtotal"`
}

func doCartRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		cookies = set
	}
	return w, cookies
}

func TestCartController_AssignsTokenCookie(t *testing.T) {
	router := setupCartControllerTest(t)

	w, cookies := doCartRequest(t, router, http.MethodGet, "/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, cookies, 1)
	assert.Equal(t, "cart_token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestCartController_AddAndGet(t *testing.T) {
	router := setupCartControllerTest(t)

	w, cookies := doCartRequest(t, router, http.MethodPost, "/cart/items", AddLineRequest{VariantID: 11, Quantity: 2}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Same cookie, same cart.
	w, _ = doCartRequest(t, router, http.MethodGet, "/cart", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cart.Lines, 1)
	assert.Equal(t, uint(11), resp.Cart.Lines[0].VariantID)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 49.0, resp.Subtotal)
}

func TestCartController_FreshCookieMeansFreshCart(t *testing.T) {
	router := setupCartControllerTest(t)

	_, _ = doCartRequest(t, router, http.MethodPost, "/cart/items", AddLineRequest{VariantID: 11, Quantity: 1}, nil)

	// No cookie sent: a new token is minted and the cart is empty.
	w, _ := doCartRequest(t, router, http.MethodGet, "/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Lines)
}

func TestCartController_AddUnknownVariant(t *testing.T) {
	router := setupCartControllerTest(t)

	w, _ := doCartRequest(t, router, http.MethodPost, "/cart/items", AddLineRequest{VariantID: 999, Quantity: 1}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CART_VARIANT_NOT_FOUND")
}

func TestCartController_SetQuantityAndRemove(t *testing.T) {
	router := setupCartControllerTest(t)

	_, cookies := doCartRequest(t, router, http.MethodPost, "/cart/items", AddLineRequest{VariantID: 11, Quantity: 1}, nil)

	w, cookies := doCartRequest(t, router, http.MethodPut, "/cart/items/11", SetQuantityRequest{Quantity: 5}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Cart.Lines[0].Quantity)

	w, _ = doCartRequest(t, router, http.MethodDelete, "/cart/items/11", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Lines)
}

func TestCartController_Clear(t *testing.T) {
	router := setupCartControllerTest(t)

	_, cookies := doCartRequest(t, router, http.MethodPost, "/cart/items", AddLineRequest{VariantID: 11, Quantity: 1}, nil)

	w, _ := doCartRequest(t, router, http.MethodDelete, "/cart", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Cart.Lines)
	assert.Equal(t, 0, resp.Count)
}
