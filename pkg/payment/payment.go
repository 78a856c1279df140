// Package payment defines the hosted-checkout gateway boundary. The checkout
// service builds a SessionRequest; the gateway turns it into a redirect URL
// owned by the payment provider.
package payment

import "context"

// LineItem is one purchasable row of a checkout session. UnitAmount is in the
// provider's minor-unit integer convention (cents).
type LineItem struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Currency    string
	Quantity    int64
}

// ShippingOption is the shopper's chosen shipping service, charged by the
// provider alongside the line items.
type ShippingOption struct {
	Name            string
	Amount          int64
	Currency        string
	MinDeliveryDays *int
	MaxDeliveryDays *int
}

// SessionRequest describes a hosted checkout session. Metadata is echoed back
// on payment webhooks and must stay small.
type SessionRequest struct {
	Items    []LineItem
	Shipping *ShippingOption
	Metadata map[string]string
}

// Session is the provider's handle for a created checkout session.
type Session struct {
	ID  string
	URL string
}

// Gateway creates hosted checkout sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
}
