package fulfillment

// Config represents the configuration for the fulfillment provider client
type Config struct {
	// APIKey is the provider API token
	APIKey string

	// StoreID identifies the store when the token spans multiple stores
	StoreID string

	// BaseURL is the provider API base URL
	BaseURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
