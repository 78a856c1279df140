package fulfillment

import "encoding/json"

// SyncProduct is one entry of the store product listing.
type SyncProduct struct {
	ID           uint   `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	VariantCount int    `json:"variants"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// SyncVariant is a store variant as returned by the product detail endpoint.
// ID is the store-level identifier, VariantID the catalog-level one.
type SyncVariant struct {
	ID            uint   `json:"id"`
	ExternalID    string `json:"external_id"`
	SyncProductID uint   `json:"sync_product_id"`
	Name          string `json:"name"`
	VariantID     uint   `json:"variant_id"`
	RetailPrice   string `json:"retail_price"`
	Currency      string `json:"currency"`
	SKU           string `json:"sku"`
	Availability  string `json:"availability_status"`
	Files         []File `json:"files"`
}

// AvailabilityDiscontinued marks variants the provider no longer produces.
const AvailabilityDiscontinued = "discontinued"

// File is one artwork/mockup file attached to a variant.
type File struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

// ProductDetail is the full product record: the listing entry plus variants.
type ProductDetail struct {
	Product  SyncProduct   `json:"sync_product"`
	Variants []SyncVariant `json:"sync_variants"`
}

// Paging describes listing pagination state.
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RateRequest asks for shipping rates to a destination for a set of
// catalog-level variant ids.
type RateRequest struct {
	Recipient RateRecipient `json:"recipient"`
	Items     []RateItem    `json:"items"`
}

type RateRecipient struct {
	CountryCode string `json:"country_code"`
}

type RateItem struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

// Rate is one quoted shipping service. The provider returns rates in
// rate-significant order; callers must not re-sort.
type Rate struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays *int   `json:"minDeliveryDays"`
	MaxDeliveryDays *int   `json:"maxDeliveryDays"`
}

// OrderRequest creates a fulfillment order.
type OrderRequest struct {
	ExternalID string      `json:"external_id"`
	Recipient  Recipient   `json:"recipient"`
	Items      []OrderItem `json:"items"`
}

// Recipient is the shipping address for a fulfillment order.
type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// OrderItem references a store-level variant; the provider reprices from its
// own catalog.
type OrderItem struct {
	SyncVariantID uint   `json:"sync_variant_id"`
	Quantity      int    `json:"quantity"`
	RetailPrice   string `json:"retail_price,omitempty"`
}

// Order is the provider's view of a created order.
type Order struct {
	ID         uint   `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

// envelope is the provider's standard response wrapper.
type envelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Paging *Paging         `json:"paging"`
	Error  *envelopeError  `json:"error"`
}

type envelopeError struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
