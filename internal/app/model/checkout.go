package model

// CheckoutSession is the handoff to the hosted payment provider. The provider
// owns the session lifecycle; nothing is persisted locally.
type CheckoutSession struct {
	RedirectURL string `json:"redirect_url"`
	SessionRef  string `json:"session_ref"`
}

// OrderItemRef is the minimal cart reconstruction embedded in the payment
// session metadata: variant id and quantity only. Prices are recomputed from
// the catalog when the fulfillment order is placed, never trusted from the
// client.
type OrderItemRef struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}
