package config

type StripeConfig interface {
	GetStripeAPIKey() string
	GetStripePriceID() string
	GetSupportEmail() string
}

type Stripe struct{}

var _ StripeConfig = Stripe{}

func (Stripe) GetStripeAPIKey() string {
	return GetEnv("STRIPE_API_KEY", "")
}

func (Stripe) GetStripePriceID() string {
	return GetEnv("STRIPE_PRICE_ID", "")
}

// GetSupportEmail appears in user-facing payment error messages.
func (Stripe) GetSupportEmail() string {
	return GetEnv("SUPPORT_EMAIL", "support@localhost")
}
