package domain

import (
	"time"
)

// PaymentMethod identifies how an invoice is paid
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
)

// PaymentStatus represents the outcome of a charge attempt
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a charge attempt against a reservation invoice.
// Any non-success outcome is treated as "payment not confirmed".
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	ReservationID string        `json:"reservation_id" gorm:"index"`
	InvoiceID     string        `json:"invoice_id" gorm:"index"`
	Method        PaymentMethod `json:"method"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	ProviderID    string        `json:"provider_id,omitempty"` // external charge reference
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
