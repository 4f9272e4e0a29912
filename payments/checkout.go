package payments

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
)

// CheckoutClient abstracts the payment processor so handlers can be
// tested with a fake.
type CheckoutClient interface {
	// CreateSession opens a hosted checkout session for quantity units
	// and returns the URL to redirect the buyer to.
	CreateSession(ctx context.Context, email string, quantity int64, successURL, cancelURL string) (string, error)
}

var _ CheckoutClient = (*StripeCheckout)(nil)

// StripeCheckout creates Stripe Checkout sessions for a single
// configured price.
type StripeCheckout struct {
	api     *stripeclient.API
	priceID string
}

// NewStripeCheckout builds a client around the given API key and price.
func NewStripeCheckout(apiKey, priceID string) *StripeCheckout {
	return &StripeCheckout{
		api:     stripeclient.New(apiKey, nil),
		priceID: priceID,
	}
}

func (c *StripeCheckout) CreateSession(ctx context.Context, email string, quantity int64, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(c.priceID),
			Quantity: stripe.Int64(quantity),
		}},
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(successURL),
		CancelURL:     stripe.String(cancelURL),
		AutomaticTax:  &stripe.CheckoutSessionAutomaticTaxParams{Enabled: stripe.Bool(true)},
	}
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrDependencyFailure, "creating checkout session: %v", err)
	}
	return session.URL, nil
}
