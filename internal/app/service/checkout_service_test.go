package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivan-cardenas/overlaymaps-backend/config"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/repository"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/fulfillment"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/payment"
)

type fakeGateway struct {
	session  *payment.Session
	err      error
	requests []payment.SessionRequest
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func setupCheckoutTest(t *testing.T, gateway *fakeGateway, cfg config.CheckoutConfig) (CheckoutService, CartService, ShippingService) {
	t.Helper()

	carts, store, gormDB := setupCartTest(t)
	repo := repository.NewProductRepository(gormDB)
	quoter := &fakeQuoter{rates: []fulfillment.Rate{
		{ID: "STANDARD", Name: "Standard", Rate: "4.99", Currency: "EUR"},
		{ID: "EXPRESS", Name: "Express", Rate: "12.50", Currency: "EUR"},
	}}
	shipping := NewShippingService(quoter, store, carts, repo)
	return NewCheckoutService(gateway, carts, shipping, cfg), carts, shipping
}

func TestCheckout_EmptyCart(t *testing.T) {
	gateway := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}}
	svc, _, _ := setupCheckoutTest(t, gateway, config.CheckoutConfig{RequireShipping: false})

	_, err := svc.CreateSession(context.Background(), "token-a")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, gateway.requests)
}

func TestCheckout_ShippingRequired(t *testing.T) {
	gateway := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}}
	svc, carts, shipping := setupCheckoutTest(t, gateway, config.CheckoutConfig{RequireShipping: true})
	ctx := context.Background()

	_, err := carts.AddLine(ctx, "token-a", 11, 1)
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, "token-a")
	assert.ErrorIs(t, err, ErrShippingRequired)
	assert.Empty(t, gateway.requests)

	// Estimating defaults the selection; no explicit pick is needed.
	_, err = shipping.Estimate(ctx, "token-a", "NL")
	require.NoError(t, err)

	session, err := svc.CreateSession(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_1", session.RedirectURL)
	assert.Equal(t, "cs_1", session.SessionRef)
}

func TestCheckout_BuildsSessionRequest(t *testing.T) {
	gateway := &fakeGateway{session: &payment.Session{ID: "cs_2", URL: "https://pay.example.com/cs_2"}}
	svc, carts, shipping := setupCheckoutTest(t, gateway, config.CheckoutConfig{RequireShipping: true})
	ctx := context.Background()

	_, err := carts.AddLine(ctx, "token-a", 11, 2)
	require.NoError(t, err)
	_, err = carts.AddLine(ctx, "token-a", 12, 1)
	require.NoError(t, err)
	_, err = shipping.Estimate(ctx, "token-a", "NL")
	require.NoError(t, err)
	_, err = shipping.SelectOption(ctx, "token-a", "STANDARD")
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, "token-a")
	require.NoError(t, err)

	require.Len(t, gateway.requests, 1)
	req := gateway.requests[0]

	require.Len(t, req.Items, 2)
	assert.Equal(t, "Overlay Tee", req.Items[0].Name)
	assert.Equal(t, "Black / M", req.Items[0].Description)
	assert.Equal(t, int64(2450), req.Items[0].UnitAmount)
	assert.Equal(t, int64(2), req.Items[0].Quantity)
	assert.Equal(t, "EUR", req.Items[0].Currency)

	require.NotNil(t, req.Shipping)
	assert.Equal(t, "Standard", req.Shipping.Name)
	assert.Equal(t, int64(499), req.Shipping.Amount)

	assert.Equal(t, "token-a", req.Metadata["cart_token"])
	assert.JSONEq(t, `[{"variant_id":11,"quantity":2},{"variant_id":12,"quantity":1}]`, req.Metadata["items"])
}

func TestCheckout_ShippingOptionalWhenNotRequired(t *testing.T) {
	gateway := &fakeGateway{session: &payment.Session{ID: "cs_3", URL: "https://pay.example.com/cs_3"}}
	svc, carts, _ := setupCheckoutTest(t, gateway, config.CheckoutConfig{RequireShipping: false})
	ctx := context.Background()

	_, err := carts.AddLine(ctx, "token-a", 11, 1)
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, "token-a")
	require.NoError(t, err)
	require.Len(t, gateway.requests, 1)
	assert.Nil(t, gateway.requests[0].Shipping)
}

func TestCheckout_SplitsLargeItemMetadata(t *testing.T) {
	carts, store, gormDB := setupCartTest(t)
	repo := repository.NewProductRepository(gormDB)

	// Enough distinct variants that the item refs overflow a single
	// metadata value at the provider.
	product := model.Product{
		Name:     "Poster Wall",
		Slug:     "poster-wall-1",
		Category: model.CategoryPosters,
		Currency: "EUR",
	}
	for i := 0; i < 40; i++ {
		product.Variants = append(product.Variants, model.Variant{
			ID:               uint(100 + i),
			CatalogVariantID: uint(5100 + i),
			Name:             fmt.Sprintf("Poster Wall - %02d", i),
			Price:            18,
			Currency:         "EUR",
			PrimaryOption:    fmt.Sprintf("Frame %02d", i),
			Available:        true,
		})
	}
	require.NoError(t, gormDB.Create(&product).Error)

	gateway := &fakeGateway{session: &payment.Session{ID: "cs_big", URL: "https://pay.example.com/cs_big"}}
	shipping := NewShippingService(&fakeQuoter{}, store, carts, repo)
	svc := NewCheckoutService(gateway, carts, shipping, config.CheckoutConfig{RequireShipping: false})
	ctx := context.Background()

	for i := 0; i < 40; i++ {
		_, err := carts.AddLine(ctx, "token-a", uint(100+i), 1)
		require.NoError(t, err)
	}

	_, err := svc.CreateSession(ctx, "token-a")
	require.NoError(t, err)

	require.Len(t, gateway.requests, 1)
	md := gateway.requests[0].Metadata
	assert.Contains(t, md, "items")
	assert.Contains(t, md, "items_1")
	for key, value := range md {
		assert.LessOrEqual(t, len(value), metadataValueLimit, "metadata value %s over the provider limit", key)
	}

	// The webhook side sees the same refs once the chunks are rejoined.
	var refs []model.OrderItemRef
	require.NoError(t, json.Unmarshal([]byte(joinMetadata(md, "items")), &refs))
	require.Len(t, refs, 40)
	assert.Equal(t, model.OrderItemRef{VariantID: 100, Quantity: 1}, refs[0])
	assert.Equal(t, model.OrderItemRef{VariantID: 139, Quantity: 1}, refs[39])
}

func TestCheckout_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: assert.AnError}
	svc, carts, _ := setupCheckoutTest(t, gateway, config.CheckoutConfig{RequireShipping: false})
	ctx := context.Background()

	_, err := carts.AddLine(ctx, "token-a", 11, 1)
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, "token-a")
	assert.ErrorIs(t, err, ErrCheckoutFailed)
}
