package stripecheckout

import (
	"context"
	"fmt"

	"github.com/ivan-cardenas/overlaymaps-backend/pkg/payment"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// Gateway implements payment.Gateway on Stripe Checkout.
type Gateway struct {
	config Config
}

// NewGateway validates the configuration and sets the Stripe API key.
func NewGateway(config Config) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	stripe.Key = config.SecretKey

	return &Gateway{config: config}, nil
}

// CreateCheckoutSession creates a hosted checkout session and returns its
// redirect URL.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.config.SuccessURL),
		CancelURL:  stripe.String(g.config.CancelURL),
	}
	params.Context = ctx

	for _, item := range req.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		if item.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{item.ImageURL})
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(item.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	if len(g.config.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(g.config.AllowedCountries),
		}
	}

	if req.Shipping != nil {
		params.ShippingOptions = []*stripe.CheckoutSessionShippingOptionParams{
			{ShippingRateData: shippingRateData(req.Shipping)},
		}
	}

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &payment.Session{ID: s.ID, URL: s.URL}, nil
}

func shippingRateData(opt *payment.ShippingOption) *stripe.CheckoutSessionShippingOptionShippingRateDataParams {
	data := &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
		Type:        stripe.String("fixed_amount"),
		DisplayName: stripe.String(opt.Name),
		FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
			Amount:   stripe.Int64(opt.Amount),
			Currency: stripe.String(opt.Currency),
		},
	}

	if opt.MinDeliveryDays != nil || opt.MaxDeliveryDays != nil {
		estimate := &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{}
		if opt.MinDeliveryDays != nil {
			estimate.Minimum = &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
				Unit:  stripe.String("business_day"),
				Value: stripe.Int64(int64(*opt.MinDeliveryDays)),
			}
		}
		if opt.MaxDeliveryDays != nil {
			estimate.Maximum = &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
				Unit:  stripe.String("business_day"),
				Value: stripe.Int64(int64(*opt.MaxDeliveryDays)),
			}
		}
		data.DeliveryEstimate = estimate
	}

	return data
}
