package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/adapter/queue"
	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/observability/telemetry"
	"github.com/fleetops-io/crfms/internal/ports"
)

// Service implements ReservationService, the reservation state machine.
// Each operation checks every precondition before mutating anything, so a
// failure leaves reservation and vehicle untouched and publishes nothing.
type Service struct {
	repo        ports.ReservationRepository
	vehicleRepo ports.VehicleRepository
	rentalRepo  ports.RentalRepository
	pricing     ports.PricingService
	payments    ports.PaymentService
	notifier    ports.Notifier
	mq          queue.MessageQueue
	log         *zap.Logger
}

// NewService creates a new reservation service
func NewService(
	repo ports.ReservationRepository,
	vehicleRepo ports.VehicleRepository,
	rentalRepo ports.RentalRepository,
	pricing ports.PricingService,
	payments ports.PaymentService,
	notifier ports.Notifier,
	mq queue.MessageQueue,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		rentalRepo:  rentalRepo,
		pricing:     pricing,
		payments:    payments,
		notifier:    notifier,
		mq:          mq,
		log:         log,
	}
}

// Create books a vehicle for a customer. The vehicle must be available;
// creation flips it to reserved and prices the reservation via the strategy
// selector. Strategy selection is re-evaluated on every call, never cached.
func (s *Service) Create(ctx context.Context, req *ports.CreateReservationRequest) (*domain.Reservation, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	if vehicle == nil {
		return nil, &domain.NotFoundError{Kind: "vehicle", ID: req.VehicleID}
	}
	if !vehicle.IsAvailable() {
		return nil, &domain.CarAlreadyReservedError{VehicleID: vehicle.ID, Status: vehicle.Status}
	}

	// Status covers the current holder; the date check also rejects a
	// booking colliding with a future reservation on a released vehicle.
	overlapping, err := s.repo.FindOverlapping(ctx, req.VehicleID, req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, &domain.CarAlreadyReservedError{VehicleID: vehicle.ID, Status: vehicle.Status}
	}

	totalPrice, strategy, addOns, rentalDays, err := s.pricing.Quote(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to quote reservation: %w", err)
	}

	now := time.Now()
	res := &domain.Reservation{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		VehicleID:       req.VehicleID,
		InsuranceTierID: req.InsuranceTierID,
		Status:          domain.ReservationStatusPending,
		PickupDate:      req.PickupDate,
		ReturnDate:      req.ReturnDate,
		RentalDays:      rentalDays,
		TotalPrice:      totalPrice,
		Strategy:        strategy,
		AddOns:          addOns,
		Invoice: &domain.Invoice{
			ID:         uuid.New().String(),
			Status:     domain.InvoiceStatusPending,
			IssuedDate: now,
			TotalPrice: totalPrice,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res.Invoice.ReservationID = res.ID
	for i := range res.AddOns {
		res.AddOns[i].ReservationID = res.ID
	}

	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	if err := s.vehicleRepo.UpdateStatus(ctx, vehicle.ID, domain.VehicleStatusReserved); err != nil {
		// Roll the reservation back so the vehicle is not double-booked later.
		if delErr := s.repo.Delete(ctx, res.ID); delErr != nil {
			s.log.Error("Failed to roll back reservation after vehicle update failure",
				zap.String("reservation_id", res.ID),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to reserve vehicle: %w", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("customer_id", res.CustomerID),
		zap.String("vehicle_id", res.VehicleID),
		zap.String("strategy", string(strategy)),
		zap.Float64("total_price", totalPrice),
	)

	s.publish(domain.Event{
		Type:          domain.EventReservationCreated,
		ReservationID: res.ID,
		VehicleID:     res.VehicleID,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		Actor:         domain.RoleCustomer,
		OccurredAt:    now,
	})

	return res, nil
}

// Approve moves a pending reservation to approved
func (s *Service) Approve(ctx context.Context, reservationID, agentID string) (*domain.Reservation, error) {
	res, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !domain.Allows(domain.OpApprove, res.Status) {
		return nil, &domain.InvalidTransitionError{ReservationID: res.ID, Op: domain.OpApprove, Status: res.Status}
	}

	res.Status = domain.ReservationStatusApproved
	res.ApprovedBy = agentID
	res.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.log.Info("Reservation approved",
		zap.String("reservation_id", res.ID),
		zap.String("agent_id", agentID),
	)

	s.publish(domain.Event{
		Type:          domain.EventReservationApproved,
		ReservationID: res.ID,
		VehicleID:     res.VehicleID,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		Actor:         domain.RoleAgent,
		OccurredAt:    res.UpdatedAt,
	})

	return res, nil
}

// ConfirmPayment charges the reservation invoice through the payment
// provider. It is only allowed on an approved reservation; a failed charge
// leaves the payment flag unset and surfaces again at pickup.
func (s *Service) ConfirmPayment(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Reservation, error) {
	res, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !domain.Allows(domain.OpPay, res.Status) {
		return nil, &domain.InvalidTransitionError{ReservationID: res.ID, Op: domain.OpPay, Status: res.Status}
	}

	payment, err := s.payments.ProcessPayment(ctx, res.ID, method)
	if err != nil {
		return nil, fmt.Errorf("failed to process payment: %w", err)
	}
	if payment.Status != domain.PaymentStatusSucceeded {
		s.publish(domain.Event{
			Type:          domain.EventInvoicePaymentFailed,
			ReservationID: res.ID,
			CustomerID:    res.CustomerID,
			Status:        res.Status,
			Actor:         domain.RoleCustomer,
			OccurredAt:    time.Now(),
		})
		return nil, fmt.Errorf("payment declined: %s", payment.FailureReason)
	}

	res.PaymentConfirmed = true
	res.UpdatedAt = time.Now()
	if res.Invoice != nil {
		res.Invoice.Status = domain.InvoiceStatusCompleted
	}

	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.log.Info("Payment confirmed",
		zap.String("reservation_id", res.ID),
		zap.String("method", string(method)),
		zap.Float64("amount", payment.Amount),
	)

	s.publish(domain.Event{
		Type:          domain.EventInvoicePaid,
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		Actor:         domain.RoleCustomer,
		OccurredAt:    res.UpdatedAt,
	})

	return res, nil
}

// Pickup hands the vehicle over. Requires approved status AND confirmed
// payment; the errors distinguish which precondition failed. The pickup
// token makes retries idempotent.
func (s *Service) Pickup(ctx context.Context, reservationID, agentID, pickupToken string, reading domain.RentalReading) (*domain.Reservation, error) {
	res, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if res.Status != domain.ReservationStatusApproved {
		return nil, &domain.ApprovalRequiredError{ReservationID: res.ID, Status: res.Status}
	}
	if !res.PaymentConfirmed {
		return nil, &domain.PaymentRequiredError{ReservationID: res.ID}
	}

	// Idempotent retry: same token means the pickup already happened.
	if existing, err := s.rentalRepo.FindByPickupToken(ctx, pickupToken); err != nil {
		return nil, fmt.Errorf("failed to check pickup token: %w", err)
	} else if existing != nil {
		return res, nil
	}

	now := time.Now()
	rental := &domain.Rental{
		ID:              uuid.New().String(),
		ReservationID:   res.ID,
		VehicleID:       res.VehicleID,
		Status:          domain.RentalStatusActive,
		PickupToken:     pickupToken,
		PickupOdometer:  reading.Odometer,
		PickupFuelLevel: reading.FuelLevel,
		PickedUpAt:      now,
		DueAt:           res.ReturnDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.rentalRepo.Save(ctx, rental); err != nil {
		return nil, fmt.Errorf("failed to open rental: %w", err)
	}

	res.Status = domain.ReservationStatusPickedUp
	res.UpdatedAt = now
	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	if err := s.vehicleRepo.UpdateStatus(ctx, res.VehicleID, domain.VehicleStatusPickedUp); err != nil {
		s.log.Error("Failed to update vehicle status after pickup",
			zap.String("vehicle_id", res.VehicleID),
			zap.Error(err),
		)
	}

	telemetry.ActiveRentals.Inc()

	s.log.Info("Vehicle picked up",
		zap.String("reservation_id", res.ID),
		zap.String("rental_id", rental.ID),
		zap.String("agent_id", agentID),
	)

	s.publish(domain.Event{
		Type:          domain.EventPickupCompleted,
		ReservationID: res.ID,
		VehicleID:     res.VehicleID,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		Actor:         domain.RoleAgent,
		OccurredAt:    now,
	})

	return res, nil
}

// Return closes the rental, settles charges and frees the vehicle
func (s *Service) Return(ctx context.Context, reservationID, agentID string, reading domain.RentalReading) (*ports.ReturnResult, error) {
	res, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !domain.Allows(domain.OpReturn, res.Status) {
		return nil, &domain.InvalidTransitionError{ReservationID: res.ID, Op: domain.OpReturn, Status: res.Status}
	}

	rental, err := s.rentalRepo.FindByReservationID(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find rental: %w", err)
	}
	if rental == nil {
		return nil, &domain.NotFoundError{Kind: "rental", ID: res.ID}
	}
	if reading.Odometer < rental.PickupOdometer {
		return nil, fmt.Errorf("return odometer %.1f below pickup odometer %.1f", reading.Odometer, rental.PickupOdometer)
	}

	now := time.Now()
	if reading.ReadAt.IsZero() {
		reading.ReadAt = now
	}

	charges := domain.ComputeCharges(rental, reading, res.RentalDays)

	rental.Status = domain.RentalStatusCompleted
	rental.ReturnOdometer = reading.Odometer
	rental.ReturnFuelLevel = reading.FuelLevel
	rental.ReturnedAt = &reading.ReadAt
	rental.LateFee = charges.LateFee
	rental.MileageOverage = charges.MileageOverage
	rental.FuelCharge = charges.FuelCharge
	rental.UpdatedAt = now

	if err := s.rentalRepo.Save(ctx, rental); err != nil {
		return nil, fmt.Errorf("failed to settle rental: %w", err)
	}

	res.Status = domain.ReservationStatusCompleted
	res.UpdatedAt = now
	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	if err := s.vehicleRepo.UpdateStatus(ctx, res.VehicleID, domain.VehicleStatusAvailable); err != nil {
		s.log.Error("Failed to release vehicle after return",
			zap.String("vehicle_id", res.VehicleID),
			zap.Error(err),
		)
	}

	telemetry.ActiveRentals.Dec()

	s.log.Info("Vehicle returned",
		zap.String("reservation_id", res.ID),
		zap.String("agent_id", agentID),
		zap.Float64("extra_charges", charges.Total),
	)

	s.publish(domain.Event{
		Type:          domain.EventReturnCompleted,
		ReservationID: res.ID,
		VehicleID:     res.VehicleID,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		Actor:         domain.RoleAgent,
		OccurredAt:    now,
	})

	return &ports.ReturnResult{Reservation: res, Charges: charges}, nil
}

// Cancel aborts a reservation that has not been picked up yet and restores
// the vehicle to the available pool
func (s *Service) Cancel(ctx context.Context, reservationID, reason string, actor domain.ActorRole) (*domain.Reservation, error) {
	res, err := s.load(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !res.CanBeCancelled() {
		return nil, &domain.CancellationNotAllowedError{ReservationID: res.ID, Status: res.Status}
	}

	res.Status = domain.ReservationStatusCancelled
	res.CancelReason = reason
	res.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	if err := s.vehicleRepo.UpdateStatus(ctx, res.VehicleID, domain.VehicleStatusAvailable); err != nil {
		s.log.Error("Failed to release vehicle after cancellation",
			zap.String("vehicle_id", res.VehicleID),
			zap.Error(err),
		)
	}

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", res.ID),
		zap.String("reason", reason),
	)

	s.publish(domain.Event{
		Type:          domain.EventReservationCancelled,
		ReservationID: res.ID,
		VehicleID:     res.VehicleID,
		CustomerID:    res.CustomerID,
		Status:        res.Status,
		Actor:         actor,
		OccurredAt:    res.UpdatedAt,
	})

	return res, nil
}

// Get retrieves a reservation by ID
func (s *Service) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByCustomer retrieves a customer's reservations
func (s *Service) ListByCustomer(ctx context.Context, customerID, status string, limit, offset int) ([]domain.Reservation, error) {
	return s.repo.FindByCustomerID(ctx, customerID, status, limit, offset)
}

func (s *Service) load(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	if res == nil {
		return nil, &domain.NotFoundError{Kind: "reservation", ID: id}
	}
	return res, nil
}

// publish fans the event out to in-process subscribers and the broker.
// Called only after every mutation of the operation has succeeded.
func (s *Service) publish(event domain.Event) {
	telemetry.ReservationTransitionsTotal.WithLabelValues(event.Type).Inc()

	if s.notifier != nil {
		s.notifier.Notify(event)
	}

	if s.mq == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("Failed to marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	if err := s.mq.Publish(event.Type, data); err != nil {
		s.log.Error("Failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}

func validateCreateRequest(req *ports.CreateReservationRequest) error {
	if req.CustomerID == "" {
		return fmt.Errorf("customer ID is required")
	}
	if req.VehicleID == "" {
		return fmt.Errorf("vehicle ID is required")
	}
	if req.ReturnDate.Before(req.PickupDate) {
		return fmt.Errorf("return date %s cannot be before pickup date %s",
			req.ReturnDate.Format("2006-01-02"), req.PickupDate.Format("2006-01-02"))
	}
	return nil
}
