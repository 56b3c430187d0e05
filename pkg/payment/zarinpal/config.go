package zarinpal

// Config represents the configuration for the Zarinpal client
type Config struct {
	// MerchantID is the 36-character merchant identifier issued by Zarinpal
	MerchantID string

	// BaseURL is the Zarinpal payment API base URL (production or sandbox)
	BaseURL string

	// PaymentPageURL is the base URL the buyer is redirected to with the authority appended
	PaymentPageURL string

	// CallbackURL is the URL Zarinpal redirects to after the buyer pays or aborts
	CallbackURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MerchantID == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.PaymentPageURL == "" {
		return ErrInvalidRequest
	}
	if c.CallbackURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
