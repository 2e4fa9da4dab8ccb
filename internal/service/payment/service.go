package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/observability/telemetry"
	"github.com/fleetops-io/crfms/internal/ports"
)

const defaultCurrency = "usd"

// Service implements PaymentService. It charges reservation invoices
// through a provider selected by payment method and records every attempt.
type Service struct {
	reservations ports.ReservationRepository
	payments     ports.PaymentRepository
	providers    map[domain.PaymentMethod]ports.PaymentProvider
	log          *zap.Logger
}

// NewService creates a payment service with the given providers
func NewService(
	reservations ports.ReservationRepository,
	payments ports.PaymentRepository,
	providers map[domain.PaymentMethod]ports.PaymentProvider,
	log *zap.Logger,
) *Service {
	return &Service{
		reservations: reservations,
		payments:     payments,
		providers:    providers,
		log:          log,
	}
}

// ProcessPayment charges the invoice attached to a reservation. Any
// provider failure is recorded and returned as a failed payment rather than
// an error, so the caller can distinguish "declined" from "broken".
func (s *Service) ProcessPayment(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Payment, error) {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	if res == nil {
		return nil, &domain.NotFoundError{Kind: "reservation", ID: reservationID}
	}
	if res.Invoice == nil {
		return nil, fmt.Errorf("reservation %s has no invoice", reservationID)
	}
	if res.Invoice.Status == domain.InvoiceStatusCompleted {
		return nil, fmt.Errorf("invoice %s is already paid", res.Invoice.ID)
	}

	provider, ok := s.providers[method]
	if !ok {
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		ReservationID: res.ID,
		InvoiceID:     res.Invoice.ID,
		Method:        method,
		Amount:        res.Invoice.TotalPrice,
		Currency:      defaultCurrency,
		CreatedAt:     time.Now(),
	}

	providerID, chargeErr := provider.Charge(ctx, payment.Amount, payment.Currency, map[string]string{
		"reservation_id": res.ID,
		"invoice_id":     res.Invoice.ID,
	})

	if chargeErr != nil {
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = chargeErr.Error()
		res.Invoice.Status = domain.InvoiceStatusFailed
	} else {
		payment.Status = domain.PaymentStatusSucceeded
		payment.ProviderID = providerID
		res.Invoice.Status = domain.InvoiceStatusCompleted
	}

	telemetry.PaymentOutcomesTotal.WithLabelValues(provider.Name(), string(payment.Status)).Inc()

	if err := s.payments.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if err := s.payments.SaveInvoice(ctx, res.Invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.log.Info("Payment processed",
		zap.String("reservation_id", res.ID),
		zap.String("provider", provider.Name()),
		zap.String("status", string(payment.Status)),
		zap.Float64("amount", payment.Amount),
	)

	return payment, nil
}
