package stripecheckout

import "errors"

// Config represents the configuration for the Stripe Checkout gateway
type Config struct {
	// SecretKey is the Stripe API secret key
	SecretKey string

	// SuccessURL is where the shopper lands after a completed payment
	SuccessURL string

	// CancelURL is where the shopper lands after abandoning checkout
	CancelURL string

	// AllowedCountries limits the shipping address form; ISO 3166-1 alpha-2
	AllowedCountries []string
}

var errInvalidConfig = errors.New("stripecheckout: incomplete configuration")

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errInvalidConfig
	}
	if c.SuccessURL == "" || c.CancelURL == "" {
		return errInvalidConfig
	}
	return nil
}
