package ports

import (
	"context"
)

// PaymentProvider is the payment-gateway collaborator. The core treats any
// non-success as "payment not confirmed".
type PaymentProvider interface {
	Name() string
	Charge(ctx context.Context, amount float64, currency string, metadata map[string]string) (providerID string, err error)
}
