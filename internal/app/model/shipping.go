package model

// ShippingOption is one rate quoted by the fulfillment provider. Options are
// ephemeral: recomputed on every estimate and never persisted past the cart
// state they were quoted for.
type ShippingOption struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Rate            float64 `json:"rate"`
	Currency        string  `json:"currency"`
	MinDeliveryDays *int    `json:"min_delivery_days,omitempty"`
	MaxDeliveryDays *int    `json:"max_delivery_days,omitempty"`
}

// ShippingQuote is the last set of options quoted for a cart, bound to the
// cart contents it was quoted against. Selections are only accepted from
// this set, so a client can pick an option but never name its price.
type ShippingQuote struct {
	Options         []ShippingOption `json:"options"`
	CartFingerprint string           `json:"cart_fingerprint"`
}

// FindOption returns the quoted option with the given id, or nil.
func (q *ShippingQuote) FindOption(id string) *ShippingOption {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// ShippingSelection is a chosen option bound to the cart contents it was
// quoted against. A fingerprint mismatch means the cart changed since the
// quote and the selection no longer holds.
type ShippingSelection struct {
	Option          ShippingOption `json:"option"`
	CartFingerprint string         `json:"cart_fingerprint"`
}
