package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/mocks"
	"github.com/fleetops-io/crfms/internal/ports"
)

type testEnv struct {
	svc          *Service
	reservations *mocks.MockReservationRepository
	vehicles     *mocks.MockVehicleRepository
	rentals      *mocks.MockRentalRepository
	pricing      *mocks.MockPricingService
	payments     *mocks.MockPaymentService
	notifier     *mocks.MockNotifier
	mq           *mocks.MockMessageQueue
}

func newTestEnv() *testEnv {
	env := &testEnv{
		reservations: mocks.NewMockReservationRepository(),
		vehicles:     mocks.NewMockVehicleRepository(),
		rentals:      mocks.NewMockRentalRepository(),
		pricing:      &mocks.MockPricingService{},
		payments:     &mocks.MockPaymentService{},
		notifier:     &mocks.MockNotifier{},
		mq:           mocks.NewMockMessageQueue(),
	}
	env.svc = NewService(
		env.reservations,
		env.vehicles,
		env.rentals,
		env.pricing,
		env.payments,
		env.notifier,
		env.mq,
		zap.NewNop(),
	)
	return env
}

func (e *testEnv) addVehicle(id string, status domain.VehicleStatus) *domain.Vehicle {
	v := &domain.Vehicle{
		ID:          id,
		PlateNumber: "ABC-" + id,
		Status:      status,
		PricePerDay: 100,
	}
	e.vehicles.Vehicles[id] = v
	return v
}

func createRequest(vehicleID string) *ports.CreateReservationRequest {
	return &ports.CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  vehicleID,
		PickupDate: time.Now().Add(24 * time.Hour),
		ReturnDate: time.Now().Add(72 * time.Hour),
	}
}

func TestCreate_AvailableVehicle(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusAvailable)
	env.pricing.QuoteFunc = func(ctx context.Context, req *ports.CreateReservationRequest) (float64, domain.PricingStrategy, []domain.ReservationAddOn, int, error) {
		return 255.0, domain.StrategyFirstOrder, nil, 2, nil
	}

	res, err := env.svc.Create(context.Background(), createRequest("veh-1"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if res.Status != domain.ReservationStatusPending {
		t.Errorf("expected status pending, got %s", res.Status)
	}
	if res.TotalPrice != 255.0 {
		t.Errorf("expected total price 255.0, got %.2f", res.TotalPrice)
	}
	if res.Strategy != domain.StrategyFirstOrder {
		t.Errorf("expected first_order strategy, got %s", res.Strategy)
	}
	if res.Invoice == nil || res.Invoice.Status != domain.InvoiceStatusPending {
		t.Error("expected a pending invoice attached to the reservation")
	}
	if res.Invoice.TotalPrice != res.TotalPrice {
		t.Errorf("invoice total %.2f does not match reservation total %.2f", res.Invoice.TotalPrice, res.TotalPrice)
	}
	if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusReserved {
		t.Errorf("expected vehicle reserved, got %s", env.vehicles.Vehicles["veh-1"].Status)
	}
	if len(env.notifier.Events) != 1 || env.notifier.Events[0].Type != domain.EventReservationCreated {
		t.Errorf("expected one reservation.created event, got %+v", env.notifier.Events)
	}
	if len(env.mq.PublishedMessages[domain.EventReservationCreated]) != 1 {
		t.Error("expected reservation.created published to the broker")
	}
}

func TestCreate_VehicleNotAvailable(t *testing.T) {
	statuses := []domain.VehicleStatus{
		domain.VehicleStatusReserved,
		domain.VehicleStatusPickedUp,
		domain.VehicleStatusOutOfService,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			env.addVehicle("veh-1", status)

			_, err := env.svc.Create(context.Background(), createRequest("veh-1"))

			var reservedErr *domain.CarAlreadyReservedError
			if !errors.As(err, &reservedErr) {
				t.Fatalf("expected CarAlreadyReservedError, got %v", err)
			}
			if len(env.reservations.Reservations) != 0 {
				t.Error("failed create must not persist a reservation")
			}
			if len(env.notifier.Events) != 0 {
				t.Error("failed create must not publish events")
			}
		})
	}
}

func TestCreate_OverlappingDatesRejected(t *testing.T) {
	// The vehicle can read available (released after a return) while a
	// future reservation still holds the requested dates.
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusAvailable)

	req := createRequest("veh-1")
	env.reservations.Reservations["res-future"] = &domain.Reservation{
		ID:         "res-future",
		CustomerID: "cust-2",
		VehicleID:  "veh-1",
		Status:     domain.ReservationStatusApproved,
		PickupDate: req.PickupDate.Add(12 * time.Hour),
		ReturnDate: req.ReturnDate.Add(24 * time.Hour),
	}

	_, err := env.svc.Create(context.Background(), req)

	var reservedErr *domain.CarAlreadyReservedError
	if !errors.As(err, &reservedErr) {
		t.Fatalf("expected CarAlreadyReservedError for overlapping dates, got %v", err)
	}
	if len(env.reservations.Reservations) != 1 {
		t.Error("rejected create must not persist a reservation")
	}
	if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusAvailable {
		t.Error("rejected create must leave the vehicle available")
	}
}

func TestCreate_AdjacentDatesAllowed(t *testing.T) {
	// A booking starting exactly when the existing one ends is no overlap.
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusAvailable)

	req := createRequest("veh-1")
	env.reservations.Reservations["res-prior"] = &domain.Reservation{
		ID:         "res-prior",
		CustomerID: "cust-2",
		VehicleID:  "veh-1",
		Status:     domain.ReservationStatusApproved,
		PickupDate: req.PickupDate.Add(-48 * time.Hour),
		ReturnDate: req.PickupDate,
	}

	if _, err := env.svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create returned error for adjacent dates: %v", err)
	}
}

func TestCreate_VehicleNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Create(context.Background(), createRequest("missing"))

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreate_ReturnBeforePickup(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusAvailable)

	req := createRequest("veh-1")
	req.PickupDate = time.Now().Add(72 * time.Hour)
	req.ReturnDate = time.Now().Add(24 * time.Hour)

	if _, err := env.svc.Create(context.Background(), req); err == nil {
		t.Fatal("expected error for return date before pickup date")
	}
}

func TestCreate_VehicleUpdateFailureRollsBack(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusAvailable)
	env.vehicles.UpdateStatusFunc = func(ctx context.Context, id string, status domain.VehicleStatus) error {
		return errors.New("db down")
	}

	_, err := env.svc.Create(context.Background(), createRequest("veh-1"))
	if err == nil {
		t.Fatal("expected error when vehicle update fails")
	}
	if len(env.reservations.Reservations) != 0 {
		t.Error("reservation should be rolled back when the vehicle cannot be reserved")
	}
	if len(env.notifier.Events) != 0 {
		t.Error("no event should be published on a failed create")
	}
}

func seedReservation(env *testEnv, status domain.ReservationStatus, paid bool) *domain.Reservation {
	res := &domain.Reservation{
		ID:               "res-1",
		CustomerID:       "cust-1",
		VehicleID:        "veh-1",
		Status:           status,
		PaymentConfirmed: paid,
		RentalDays:       2,
		TotalPrice:       200,
		ReturnDate:       time.Now().Add(48 * time.Hour),
		Invoice: &domain.Invoice{
			ID:            "inv-1",
			ReservationID: "res-1",
			Status:        domain.InvoiceStatusPending,
			TotalPrice:    200,
		},
	}
	env.reservations.Reservations[res.ID] = res
	return res
}

func TestApprove_FromPending(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusPending, false)

	res, err := env.svc.Approve(context.Background(), "res-1", "agent-1")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if res.Status != domain.ReservationStatusApproved {
		t.Errorf("expected approved, got %s", res.Status)
	}
	if res.ApprovedBy != "agent-1" {
		t.Errorf("expected approver agent-1, got %s", res.ApprovedBy)
	}
	if len(env.notifier.Events) != 1 || env.notifier.Events[0].Type != domain.EventReservationApproved {
		t.Error("expected a reservation.approved event")
	}
}

func TestApprove_InvalidFromOtherStatuses(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.ReservationStatusApproved,
		domain.ReservationStatusPickedUp,
		domain.ReservationStatusCompleted,
		domain.ReservationStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			seedReservation(env, status, false)

			_, err := env.svc.Approve(context.Background(), "res-1", "agent-1")

			var transitionErr *domain.InvalidTransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("expected InvalidTransitionError, got %v", err)
			}
			if len(env.notifier.Events) != 0 {
				t.Error("rejected transition must not publish events")
			}
		})
	}
}

func TestConfirmPayment_Succeeds(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusApproved, false)

	res, err := env.svc.ConfirmPayment(context.Background(), "res-1", domain.PaymentMethodCreditCard)
	if err != nil {
		t.Fatalf("ConfirmPayment returned error: %v", err)
	}
	if !res.PaymentConfirmed {
		t.Error("expected payment confirmed")
	}
	if res.Invoice.Status != domain.InvoiceStatusCompleted {
		t.Errorf("expected invoice completed, got %s", res.Invoice.Status)
	}
	if len(env.notifier.Events) != 1 || env.notifier.Events[0].Type != domain.EventInvoicePaid {
		t.Error("expected an invoice.paid event")
	}
}

func TestConfirmPayment_Declined(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusApproved, false)
	env.payments.ProcessPaymentFunc = func(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Payment, error) {
		return &domain.Payment{
			ReservationID: reservationID,
			Status:        domain.PaymentStatusFailed,
			FailureReason: "card declined",
		}, nil
	}

	_, err := env.svc.ConfirmPayment(context.Background(), "res-1", domain.PaymentMethodCreditCard)
	if err == nil {
		t.Fatal("expected error for declined payment")
	}
	if env.reservations.Reservations["res-1"].PaymentConfirmed {
		t.Error("declined payment must not set the payment flag")
	}
	if len(env.notifier.Events) != 1 || env.notifier.Events[0].Type != domain.EventInvoicePaymentFailed {
		t.Error("expected an invoice.payment_failed event")
	}
}

func TestConfirmPayment_OnlyFromApproved(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusPending, false)

	_, err := env.svc.ConfirmPayment(context.Background(), "res-1", domain.PaymentMethodCreditCard)

	var transitionErr *domain.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestPickup_RequiresApprovalFirst(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusPending, true)

	_, err := env.svc.Pickup(context.Background(), "res-1", "agent-1", "tok-1", domain.RentalReading{})

	var approvalErr *domain.ApprovalRequiredError
	if !errors.As(err, &approvalErr) {
		t.Fatalf("expected ApprovalRequiredError, got %v", err)
	}
}

func TestPickup_RequiresPayment(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusApproved, false)

	_, err := env.svc.Pickup(context.Background(), "res-1", "agent-1", "tok-1", domain.RentalReading{})

	var paymentErr *domain.PaymentRequiredError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentRequiredError, got %v", err)
	}
}

func TestPickup_ApprovedAndPaid(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusReserved)
	seedReservation(env, domain.ReservationStatusApproved, true)

	reading := domain.RentalReading{Odometer: 12000, FuelLevel: 1.0, ReadAt: time.Now()}
	res, err := env.svc.Pickup(context.Background(), "res-1", "agent-1", "tok-1", reading)
	if err != nil {
		t.Fatalf("Pickup returned error: %v", err)
	}
	if res.Status != domain.ReservationStatusPickedUp {
		t.Errorf("expected picked_up, got %s", res.Status)
	}
	if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusPickedUp {
		t.Errorf("expected vehicle picked_up, got %s", env.vehicles.Vehicles["veh-1"].Status)
	}

	rental, _ := env.rentals.FindByPickupToken(context.Background(), "tok-1")
	if rental == nil {
		t.Fatal("expected a rental opened for the pickup token")
	}
	if rental.PickupOdometer != 12000 || rental.PickupFuelLevel != 1.0 {
		t.Errorf("rental readings not captured: %+v", rental)
	}
	if len(env.notifier.Events) != 1 || env.notifier.Events[0].Type != domain.EventPickupCompleted {
		t.Error("expected a rental.pickup_completed event")
	}
}

func TestPickup_IdempotentToken(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusReserved)
	seedReservation(env, domain.ReservationStatusApproved, true)

	reading := domain.RentalReading{Odometer: 12000, FuelLevel: 1.0, ReadAt: time.Now()}
	if _, err := env.svc.Pickup(context.Background(), "res-1", "agent-1", "tok-1", reading); err != nil {
		t.Fatalf("first pickup failed: %v", err)
	}

	// Force the reservation back to the pre-pickup state so only the token
	// dedupes the retry.
	env.reservations.Reservations["res-1"].Status = domain.ReservationStatusApproved

	if _, err := env.svc.Pickup(context.Background(), "res-1", "agent-1", "tok-1", reading); err != nil {
		t.Fatalf("retried pickup should be idempotent, got %v", err)
	}
	if len(env.rentals.Rentals) != 1 {
		t.Errorf("expected exactly one rental, got %d", len(env.rentals.Rentals))
	}
	if len(env.notifier.Events) != 1 {
		t.Errorf("retry must not publish a second event, got %d", len(env.notifier.Events))
	}
}

func TestReturn_SettlesCharges(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusPickedUp)
	res := seedReservation(env, domain.ReservationStatusPickedUp, true)

	dueAt := time.Now().Add(-4 * time.Hour)
	env.rentals.Rentals["rent-1"] = &domain.Rental{
		ID:              "rent-1",
		ReservationID:   res.ID,
		VehicleID:       "veh-1",
		Status:          domain.RentalStatusActive,
		PickupToken:     "tok-1",
		PickupOdometer:  10000,
		PickupFuelLevel: 1.0,
		DueAt:           dueAt,
	}

	// 3 hours past due+grace, 100 km over the 400 km allowance, half a tank
	// missing: 3*10 + 100*0.5 + 0.5*50 = 105.
	reading := domain.RentalReading{
		Odometer:  10500,
		FuelLevel: 0.5,
		ReadAt:    dueAt.Add(4 * time.Hour),
	}

	result, err := env.svc.Return(context.Background(), "res-1", "agent-1", reading)
	if err != nil {
		t.Fatalf("Return returned error: %v", err)
	}

	if result.Charges.LateFee != 30 {
		t.Errorf("expected late fee 30, got %.2f", result.Charges.LateFee)
	}
	if result.Charges.MileageOverage != 50 {
		t.Errorf("expected mileage overage 50, got %.2f", result.Charges.MileageOverage)
	}
	if result.Charges.FuelCharge != 25 {
		t.Errorf("expected fuel charge 25, got %.2f", result.Charges.FuelCharge)
	}
	if result.Charges.Total != 105 {
		t.Errorf("expected total 105, got %.2f", result.Charges.Total)
	}
	if result.Reservation.Status != domain.ReservationStatusCompleted {
		t.Errorf("expected completed, got %s", result.Reservation.Status)
	}
	if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusAvailable {
		t.Errorf("expected vehicle released, got %s", env.vehicles.Vehicles["veh-1"].Status)
	}
	if !env.rentals.Rentals["rent-1"].IsReturned() {
		t.Error("expected rental settled")
	}
}

func TestReturn_OnTimeNoCharges(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusPickedUp)
	res := seedReservation(env, domain.ReservationStatusPickedUp, true)

	dueAt := time.Now().Add(2 * time.Hour)
	env.rentals.Rentals["rent-1"] = &domain.Rental{
		ID:              "rent-1",
		ReservationID:   res.ID,
		VehicleID:       "veh-1",
		Status:          domain.RentalStatusActive,
		PickupOdometer:  10000,
		PickupFuelLevel: 1.0,
		DueAt:           dueAt,
	}

	reading := domain.RentalReading{Odometer: 10100, FuelLevel: 1.0, ReadAt: time.Now()}
	result, err := env.svc.Return(context.Background(), "res-1", "agent-1", reading)
	if err != nil {
		t.Fatalf("Return returned error: %v", err)
	}
	if result.Charges.Total != 0 {
		t.Errorf("expected no extra charges, got %.2f", result.Charges.Total)
	}
}

func TestReturn_OnlyFromPickedUp(t *testing.T) {
	env := newTestEnv()
	seedReservation(env, domain.ReservationStatusApproved, true)

	_, err := env.svc.Return(context.Background(), "res-1", "agent-1", domain.RentalReading{})

	var transitionErr *domain.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestCancel_BeforePickup(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.ReservationStatusPending,
		domain.ReservationStatusApproved,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			env.addVehicle("veh-1", domain.VehicleStatusReserved)
			seedReservation(env, status, false)

			res, err := env.svc.Cancel(context.Background(), "res-1", "changed plans", domain.RoleCustomer)
			if err != nil {
				t.Fatalf("Cancel returned error: %v", err)
			}
			if res.Status != domain.ReservationStatusCancelled {
				t.Errorf("expected cancelled, got %s", res.Status)
			}
			if res.CancelReason != "changed plans" {
				t.Errorf("expected cancel reason recorded, got %q", res.CancelReason)
			}
			if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusAvailable {
				t.Error("cancellation must release the vehicle")
			}
			if len(env.notifier.Events) != 1 || env.notifier.Events[0].Type != domain.EventReservationCancelled {
				t.Error("expected a reservation.cancelled event")
			}
		})
	}
}

func TestCancel_RefusedAfterPickup(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.ReservationStatusPickedUp,
		domain.ReservationStatusCompleted,
		domain.ReservationStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			env.addVehicle("veh-1", domain.VehicleStatusPickedUp)
			seedReservation(env, status, true)

			_, err := env.svc.Cancel(context.Background(), "res-1", "too late", domain.RoleCustomer)

			var cancelErr *domain.CancellationNotAllowedError
			if !errors.As(err, &cancelErr) {
				t.Fatalf("expected CancellationNotAllowedError, got %v", err)
			}
			if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusPickedUp {
				t.Error("refused cancellation must not touch the vehicle")
			}
		})
	}
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv()
	env.addVehicle("veh-1", domain.VehicleStatusAvailable)
	env.pricing.QuoteFunc = func(ctx context.Context, req *ports.CreateReservationRequest) (float64, domain.PricingStrategy, []domain.ReservationAddOn, int, error) {
		// First order: (100 per day * 2 days) * 0.85
		return 170.0, domain.StrategyFirstOrder, nil, 2, nil
	}

	ctx := context.Background()
	res, err := env.svc.Create(ctx, createRequest("veh-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.TotalPrice != 170.0 {
		t.Fatalf("expected first-order price 170.0, got %.2f", res.TotalPrice)
	}

	if _, err := env.svc.Approve(ctx, res.ID, "agent-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := env.svc.ConfirmPayment(ctx, res.ID, domain.PaymentMethodCreditCard); err != nil {
		t.Fatalf("pay: %v", err)
	}
	reading := domain.RentalReading{Odometer: 5000, FuelLevel: 1.0, ReadAt: time.Now()}
	if _, err := env.svc.Pickup(ctx, res.ID, "agent-1", "tok-1", reading); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	ret := domain.RentalReading{Odometer: 5100, FuelLevel: 1.0, ReadAt: time.Now()}
	result, err := env.svc.Return(ctx, res.ID, "agent-1", ret)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if result.Reservation.Status != domain.ReservationStatusCompleted {
		t.Errorf("expected completed, got %s", result.Reservation.Status)
	}
	if env.vehicles.Vehicles["veh-1"].Status != domain.VehicleStatusAvailable {
		t.Error("vehicle should be available after return")
	}

	wantEvents := []string{
		domain.EventReservationCreated,
		domain.EventReservationApproved,
		domain.EventInvoicePaid,
		domain.EventPickupCompleted,
		domain.EventReturnCompleted,
	}
	if len(env.notifier.Events) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d", len(wantEvents), len(env.notifier.Events))
	}
	for i, want := range wantEvents {
		if env.notifier.Events[i].Type != want {
			t.Errorf("event %d: expected %s, got %s", i, want, env.notifier.Events[i].Type)
		}
	}
}
