package ports

import (
	"context"
	"time"

	"github.com/fleetops-io/crfms/internal/domain"
)

// CreateReservationRequest carries the booking intent into the core
type CreateReservationRequest struct {
	CustomerID      string
	VehicleID       string
	InsuranceTierID string
	AddOnIDs        []string
	PickupDate      time.Time
	ReturnDate      time.Time
}

// ReturnResult reports the settlement computed at return
type ReturnResult struct {
	Reservation *domain.Reservation
	Charges     domain.RentalCharges
}

// ReservationService drives the reservation lifecycle. Every operation is a
// synchronous precondition-check-then-mutate step; failed preconditions
// never mutate state and never publish events.
type ReservationService interface {
	Create(ctx context.Context, req *CreateReservationRequest) (*domain.Reservation, error)
	Approve(ctx context.Context, reservationID, agentID string) (*domain.Reservation, error)
	ConfirmPayment(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Reservation, error)
	Pickup(ctx context.Context, reservationID, agentID, pickupToken string, reading domain.RentalReading) (*domain.Reservation, error)
	Return(ctx context.Context, reservationID, agentID string, reading domain.RentalReading) (*ReturnResult, error)
	Cancel(ctx context.Context, reservationID, reason string, actor domain.ActorRole) (*domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID, status string, limit, offset int) ([]domain.Reservation, error)
}

// VehicleService manages the fleet and its maintenance gating
type VehicleService interface {
	Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	Get(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context, filter map[string]interface{}) ([]domain.Vehicle, error)
	AddMaintenanceRecord(ctx context.Context, vehicleID, agentID, description string) (*domain.MaintenanceRecord, error)
	ApproveMaintenance(ctx context.Context, vehicleID, recordID, managerID string) (*domain.Vehicle, error)
}

// PricingService selects the discount strategy, quotes a total price and
// manages the catalog the quotes draw from
type PricingService interface {
	SelectStrategy(ctx context.Context, customerID string) (domain.PricingStrategy, error)
	Quote(ctx context.Context, req *CreateReservationRequest) (float64, domain.PricingStrategy, []domain.ReservationAddOn, int, error)
	CreateInsuranceTier(ctx context.Context, tier *domain.InsuranceTier) (*domain.InsuranceTier, error)
	CreateAddOn(ctx context.Context, addOn *domain.AddOn) (*domain.AddOn, error)
	ListInsuranceTiers(ctx context.Context) ([]domain.InsuranceTier, error)
	ListAddOns(ctx context.Context) ([]domain.AddOn, error)
}

// PaymentService charges invoices through a payment provider
type PaymentService interface {
	ProcessPayment(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Payment, error)
}

// AuthService resolves credentials to an identity with a role
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// Notifier fans a lifecycle event out to attached subscribers
type Notifier interface {
	Notify(event domain.Event)
}
