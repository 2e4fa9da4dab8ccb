package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

// Service implements PricingService. Strategy selection is a pure function
// of the customer's completed-order count; the service only gathers inputs.
type Service struct {
	reservations ports.ReservationRepository
	customers    ports.CustomerRepository
	vehicles     ports.VehicleRepository
	catalog      ports.CatalogRepository
	log          *zap.Logger
}

// NewService creates a new pricing service
func NewService(
	reservations ports.ReservationRepository,
	customers ports.CustomerRepository,
	vehicles ports.VehicleRepository,
	catalog ports.CatalogRepository,
	log *zap.Logger,
) *Service {
	return &Service{
		reservations: reservations,
		customers:    customers,
		vehicles:     vehicles,
		catalog:      catalog,
		log:          log,
	}
}

// SelectStrategy counts the customer's COMPLETED reservations and picks the
// discount policy. Cancelled and in-flight reservations are excluded from
// the count; an earlier revision counted every reservation, which let a
// customer cancel their way into loyalty pricing.
func (s *Service) SelectStrategy(ctx context.Context, customerID string) (domain.PricingStrategy, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("failed to find customer: %w", err)
	}
	if customer == nil {
		return "", &domain.NotFoundError{Kind: "customer", ID: customerID}
	}

	completed, err := s.reservations.CountByCustomerAndStatus(ctx, customerID, []domain.ReservationStatus{
		domain.ReservationStatusCompleted,
	})
	if err != nil {
		return "", fmt.Errorf("failed to count completed reservations: %w", err)
	}

	return domain.SelectStrategy(completed), nil
}

// Quote computes the total price for a booking request:
// (vehicle + insurance + add-ons) per day x rental days, then the strategy
// discount. Add-on prices are snapshotted for the reservation.
func (s *Service) Quote(ctx context.Context, req *ports.CreateReservationRequest) (float64, domain.PricingStrategy, []domain.ReservationAddOn, int, error) {
	strategy, err := s.SelectStrategy(ctx, req.CustomerID)
	if err != nil {
		return 0, "", nil, 0, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return 0, "", nil, 0, fmt.Errorf("failed to find vehicle: %w", err)
	}
	if vehicle == nil {
		return 0, "", nil, 0, &domain.NotFoundError{Kind: "vehicle", ID: req.VehicleID}
	}

	var insuranceRate float64
	if req.InsuranceTierID != "" {
		tier, err := s.catalog.FindInsuranceTierByID(ctx, req.InsuranceTierID)
		if err != nil {
			return 0, "", nil, 0, fmt.Errorf("failed to find insurance tier: %w", err)
		}
		if tier == nil {
			return 0, "", nil, 0, &domain.NotFoundError{Kind: "insurance tier", ID: req.InsuranceTierID}
		}
		insuranceRate = tier.PricePerDay
	}

	var snapshots []domain.ReservationAddOn
	var addOnRates []float64
	if len(req.AddOnIDs) > 0 {
		addOns, err := s.catalog.FindAddOnsByIDs(ctx, req.AddOnIDs)
		if err != nil {
			return 0, "", nil, 0, fmt.Errorf("failed to find add-ons: %w", err)
		}
		found := make(map[string]bool, len(addOns))
		for _, a := range addOns {
			found[a.ID] = true
			addOnRates = append(addOnRates, a.PricePerDay)
			snapshots = append(snapshots, domain.ReservationAddOn{
				ID:          uuid.New().String(),
				AddOnID:     a.ID,
				Name:        a.Name,
				PricePerDay: a.PricePerDay,
			})
		}
		for _, id := range req.AddOnIDs {
			if !found[id] {
				return 0, "", nil, 0, &domain.NotFoundError{Kind: "add-on", ID: id}
			}
		}
	}

	rentalDays := int(req.ReturnDate.Sub(req.PickupDate).Hours() / 24)
	if rentalDays < 1 {
		rentalDays = 1
	}

	base := domain.BasePrice(vehicle.PricePerDay, insuranceRate, addOnRates, rentalDays)
	total := strategy.Apply(base)

	s.log.Debug("Quoted reservation",
		zap.String("customer_id", req.CustomerID),
		zap.String("vehicle_id", req.VehicleID),
		zap.String("strategy", string(strategy)),
		zap.Int("rental_days", rentalDays),
		zap.Float64("base_price", base),
		zap.Float64("total_price", total),
	)

	return total, strategy, snapshots, rentalDays, nil
}

// CreateInsuranceTier adds a coverage level to the catalog. Existing
// reservations keep their snapshotted rates.
func (s *Service) CreateInsuranceTier(ctx context.Context, tier *domain.InsuranceTier) (*domain.InsuranceTier, error) {
	if tier.Name == "" {
		return nil, fmt.Errorf("insurance tier name is required")
	}
	if tier.PricePerDay < 0 {
		return nil, fmt.Errorf("insurance tier price cannot be negative")
	}
	if tier.ID == "" {
		tier.ID = uuid.New().String()
	}

	if err := s.catalog.SaveInsuranceTier(ctx, tier); err != nil {
		return nil, fmt.Errorf("failed to save insurance tier: %w", err)
	}

	s.log.Info("Insurance tier created",
		zap.String("tier_id", tier.ID),
		zap.String("name", tier.Name),
		zap.Float64("price_per_day", tier.PricePerDay),
	)
	return tier, nil
}

// CreateAddOn adds a bookable extra to the catalog
func (s *Service) CreateAddOn(ctx context.Context, addOn *domain.AddOn) (*domain.AddOn, error) {
	if addOn.Name == "" {
		return nil, fmt.Errorf("add-on name is required")
	}
	if addOn.PricePerDay < 0 {
		return nil, fmt.Errorf("add-on price cannot be negative")
	}
	if addOn.ID == "" {
		addOn.ID = uuid.New().String()
	}

	if err := s.catalog.SaveAddOn(ctx, addOn); err != nil {
		return nil, fmt.Errorf("failed to save add-on: %w", err)
	}

	s.log.Info("Add-on created",
		zap.String("add_on_id", addOn.ID),
		zap.String("name", addOn.Name),
		zap.Float64("price_per_day", addOn.PricePerDay),
	)
	return addOn, nil
}

// ListInsuranceTiers returns every coverage level in the catalog
func (s *Service) ListInsuranceTiers(ctx context.Context) ([]domain.InsuranceTier, error) {
	return s.catalog.FindAllInsuranceTiers(ctx)
}

// ListAddOns returns every bookable extra in the catalog
func (s *Service) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	return s.catalog.FindAllAddOns(ctx)
}
