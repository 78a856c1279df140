package errors

// Error code constants, CATEGORY_SPECIFIC_DETAIL. The storefront frontend
// maps these codes to display copy.

const (
	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// Catalog
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogOptionNotFound  = "CATALOG_OPTION_NOT_FOUND"
	CatalogVariantNotFound = "CATALOG_VARIANT_NOT_FOUND"
	CatalogSyncFailed      = "CATALOG_SYNC_FAILED"
	CatalogExportFailed    = "CATALOG_EXPORT_FAILED"

	// Cart
	CartVariantNotFound    = "CART_VARIANT_NOT_FOUND"
	CartVariantUnavailable = "CART_VARIANT_UNAVAILABLE"

	// Shipping
	ShippingInvalidRequest = "SHIPPING_INVALID_REQUEST"
	ShippingEstimateFailed = "SHIPPING_ESTIMATE_FAILED"
	ShippingOptionNotFound = "SHIPPING_OPTION_NOT_FOUND"
	ShippingCartUnresolved = "SHIPPING_CART_UNRESOLVED"

	// Checkout
	CheckoutEmptyCart        = "CHECKOUT_EMPTY_CART"
	CheckoutInvalidLine      = "CHECKOUT_INVALID_LINE"
	CheckoutShippingRequired = "CHECKOUT_SHIPPING_REQUIRED"
	CheckoutFailed           = "CHECKOUT_FAILED"

	// Webhook
	WebhookInvalidPayload   = "WEBHOOK_INVALID_PAYLOAD"
	WebhookInvalidSignature = "WEBHOOK_INVALID_SIGNATURE"

	// Admin
	AdminUnauthorized = "ADMIN_UNAUTHORIZED"

	// Generic
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
