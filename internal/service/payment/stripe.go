package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeProvider charges credit cards through Stripe
type StripeProvider struct {
	secretKey string
}

// NewStripeProvider creates a new Stripe provider
func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{secretKey: secretKey}
}

// Name returns the provider name
func (p *StripeProvider) Name() string {
	return "stripe"
}

// Charge creates and confirms a payment intent. Stripe expects the amount
// in cents.
func (p *StripeProvider) Charge(ctx context.Context, amount float64, currency string, metadata map[string]string) (string, error) {
	amountCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if metadata != nil {
		params.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			params.Metadata[k] = v
		}
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe error: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("stripe payment intent %s in status %s", pi.ID, pi.Status)
	}

	return pi.ID, nil
}
