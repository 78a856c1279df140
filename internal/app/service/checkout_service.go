package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ivan-cardenas/overlaymaps-backend/config"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/logger"
	"github.com/ivan-cardenas/overlaymaps-backend/pkg/payment"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidLine      = errors.New("cart contains an invalid line")
	ErrShippingRequired = errors.New("shipping option not selected")
	ErrCheckoutFailed   = errors.New("checkout session creation failed")
)

// CheckoutService turns a cart plus its shipping selection into a hosted
// payment session. The variant ids and quantities ride along as session
// metadata so the payment webhook can rebuild the order without trusting any
// amount from the client.
type CheckoutService interface {
	CreateSession(ctx context.Context, token string) (*model.CheckoutSession, error)
}

type checkoutService struct {
	gateway  payment.Gateway
	carts    CartService
	shipping ShippingService
	cfg      config.CheckoutConfig
}

func NewCheckoutService(gateway payment.Gateway, carts CartService, shipping ShippingService, cfg config.CheckoutConfig) CheckoutService {
	return &checkoutService{
		gateway:  gateway,
		carts:    carts,
		shipping: shipping,
		cfg:      cfg,
	}
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// metadataValueLimit is the payment provider's cap on a single metadata
// value, in characters.
const metadataValueLimit = 500

// splitMetadata spreads value over key, key_1, key_2, ... so no single
// metadata value exceeds the provider's limit. Large carts overflow a single
// value; joinMetadata on the webhook side reassembles the chunks.
func splitMetadata(md map[string]string, key, value string) {
	for i := 0; len(value) > 0; i++ {
		k := key
		if i > 0 {
			k = fmt.Sprintf("%s_%d", key, i)
		}
		chunk := value
		if len(chunk) > metadataValueLimit {
			chunk = chunk[:metadataValueLimit]
		}
		md[k] = chunk
		value = value[len(chunk):]
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, token string) (*model.CheckoutSession, error) {
	cart, err := s.carts.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]payment.LineItem, 0, len(cart.Lines))
	refs := make([]model.OrderItemRef, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.VariantID == 0 || line.UnitPrice <= 0 ||
			line.Quantity < model.MinLineQuantity || line.Quantity > model.MaxLineQuantity {
			logger.Warn("Refusing checkout for invalid cart line", map[string]interface{}{
				"token":      token,
				"variant_id": line.VariantID,
				"unit_price": line.UnitPrice,
				"quantity":   line.Quantity,
			})
			return nil, ErrInvalidLine
		}
		currency := line.Currency
		if currency == "" {
			currency = s.cfg.DefaultCurrency
		}
		items = append(items, payment.LineItem{
			Name:        line.ProductName,
			Description: line.VariantLabel,
			ImageURL:    line.ThumbnailURL,
			UnitAmount:  minorUnits(line.UnitPrice),
			Currency:    currency,
			Quantity:    int64(line.Quantity),
		})
		refs = append(refs, model.OrderItemRef{VariantID: line.VariantID, Quantity: line.Quantity})
	}

	var shippingOption *payment.ShippingOption
	selected, err := s.shipping.SelectedOption(ctx, token)
	if err != nil {
		return nil, err
	}
	if selected != nil {
		shippingOption = &payment.ShippingOption{
			Name:            selected.Name,
			Amount:          minorUnits(selected.Rate),
			Currency:        selected.Currency,
			MinDeliveryDays: selected.MinDeliveryDays,
			MaxDeliveryDays: selected.MaxDeliveryDays,
		}
	} else if s.cfg.RequireShipping {
		return nil, ErrShippingRequired
	}

	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"cart_token": token}
	splitMetadata(metadata, "items", string(refsJSON))

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionRequest{
		Items:    items,
		Shipping: shippingOption,
		Metadata: metadata,
	})
	if err != nil {
		logger.Error("Failed to create checkout session", err, map[string]interface{}{
			"token": token,
			"count": cart.Count(),
		})
		return nil, ErrCheckoutFailed
	}

	logger.Info("Checkout session created", map[string]interface{}{
		"token":       token,
		"session_ref": session.ID,
		"subtotal":    cart.Subtotal(),
	})
	return &model.CheckoutSession{
		RedirectURL: session.URL,
		SessionRef:  session.ID,
	}, nil
}
