package ports

import (
	"context"
	"time"

	"github.com/fleetops-io/crfms/internal/domain"
)

// Repositories are the persistence collaborators. Loads and saves are atomic
// per entity; the core assumes nothing else about the storage technology.
// Find methods return (nil, nil) when no row matches.

type VehicleRepository interface {
	Save(ctx context.Context, v *domain.Vehicle) error
	FindByID(ctx context.Context, id string) (*domain.Vehicle, error)
	FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.Vehicle, error)
	UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error
	SaveMaintenanceRecord(ctx context.Context, rec *domain.MaintenanceRecord) error
	FindMaintenanceRecord(ctx context.Context, vehicleID, recordID string) (*domain.MaintenanceRecord, error)
	FindMaintenanceRecords(ctx context.Context, vehicleID string) ([]domain.MaintenanceRecord, error)
	Delete(ctx context.Context, id string) error
}

type CustomerRepository interface {
	Save(ctx context.Context, c *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

type ReservationRepository interface {
	Save(ctx context.Context, r *domain.Reservation) error
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	FindByCustomerID(ctx context.Context, customerID string, status string, limit, offset int) ([]domain.Reservation, error)
	FindByVehicleID(ctx context.Context, vehicleID string) ([]domain.Reservation, error)
	FindActiveByVehicleID(ctx context.Context, vehicleID string) ([]domain.Reservation, error)
	FindOverlapping(ctx context.Context, vehicleID string, pickup, ret time.Time) ([]domain.Reservation, error)
	CountByCustomerAndStatus(ctx context.Context, customerID string, statuses []domain.ReservationStatus) (int, error)
	Delete(ctx context.Context, id string) error
}

type RentalRepository interface {
	Save(ctx context.Context, r *domain.Rental) error
	FindByID(ctx context.Context, id string) (*domain.Rental, error)
	FindByReservationID(ctx context.Context, reservationID string) (*domain.Rental, error)
	FindByPickupToken(ctx context.Context, token string) (*domain.Rental, error)
}

type PaymentRepository interface {
	SavePayment(ctx context.Context, p *domain.Payment) error
	FindPaymentsByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error)
	SaveInvoice(ctx context.Context, inv *domain.Invoice) error
	FindInvoiceByReservation(ctx context.Context, reservationID string) (*domain.Invoice, error)
}

type UserRepository interface {
	Save(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CatalogRepository interface {
	SaveInsuranceTier(ctx context.Context, tier *domain.InsuranceTier) error
	FindInsuranceTierByID(ctx context.Context, id string) (*domain.InsuranceTier, error)
	FindAllInsuranceTiers(ctx context.Context) ([]domain.InsuranceTier, error)
	SaveAddOn(ctx context.Context, addOn *domain.AddOn) error
	FindAddOnsByIDs(ctx context.Context, ids []string) ([]domain.AddOn, error)
	FindAllAddOns(ctx context.Context) ([]domain.AddOn, error)
}
