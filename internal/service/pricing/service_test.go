package pricing

import (
	"context"
	"errors"
	"fmt"
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
	customers    *mocks.MockCustomerRepository
	vehicles     *mocks.MockVehicleRepository
	catalog      *mocks.MockCatalogRepository
}

func newTestEnv() *testEnv {
	env := &testEnv{
		reservations: mocks.NewMockReservationRepository(),
		customers:    mocks.NewMockCustomerRepository(),
		vehicles:     mocks.NewMockVehicleRepository(),
		catalog:      mocks.NewMockCatalogRepository(),
	}
	env.svc = NewService(env.reservations, env.customers, env.vehicles, env.catalog, zap.NewNop())
	env.customers.Customers["cust-1"] = &domain.Customer{ID: "cust-1", Name: "Test Customer"}
	env.vehicles.Vehicles["veh-1"] = &domain.Vehicle{
		ID:          "veh-1",
		Status:      domain.VehicleStatusAvailable,
		PricePerDay: 100,
	}
	return env
}

func (e *testEnv) seedReservations(customerID string, status domain.ReservationStatus, n int) {
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("res-%s-%d", status, i)
		e.reservations.Reservations[id] = &domain.Reservation{
			ID:         id,
			CustomerID: customerID,
			VehicleID:  "veh-1",
			Status:     status,
		}
	}
}

func quoteRequest(days int) *ports.CreateReservationRequest {
	pickup := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &ports.CreateReservationRequest{
		CustomerID: "cust-1",
		VehicleID:  "veh-1",
		PickupDate: pickup,
		ReturnDate: pickup.Add(time.Duration(days) * 24 * time.Hour),
	}
}

func TestSelectStrategy_FirstOrder(t *testing.T) {
	env := newTestEnv()

	strategy, err := env.svc.SelectStrategy(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("SelectStrategy returned error: %v", err)
	}
	if strategy != domain.StrategyFirstOrder {
		t.Errorf("expected first_order for a new customer, got %s", strategy)
	}
}

func TestSelectStrategy_CancelledOrdersDoNotCount(t *testing.T) {
	// A customer whose only history is cancellations still gets the
	// first-order discount.
	env := newTestEnv()
	env.seedReservations("cust-1", domain.ReservationStatusCancelled, 3)

	strategy, err := env.svc.SelectStrategy(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("SelectStrategy returned error: %v", err)
	}
	if strategy != domain.StrategyFirstOrder {
		t.Errorf("expected first_order when all history is cancelled, got %s", strategy)
	}
}

func TestSelectStrategy_LoyaltyEveryFifthOrder(t *testing.T) {
	cases := []struct {
		completed int
		want      domain.PricingStrategy
	}{
		{0, domain.StrategyFirstOrder},
		{1, domain.StrategyDaily},
		{3, domain.StrategyDaily},
		{4, domain.StrategyLoyalty}, // the 5th order
		{5, domain.StrategyDaily},
		{9, domain.StrategyLoyalty}, // the 10th order
		{10, domain.StrategyDaily},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_completed", tc.completed), func(t *testing.T) {
			env := newTestEnv()
			env.seedReservations("cust-1", domain.ReservationStatusCompleted, tc.completed)

			strategy, err := env.svc.SelectStrategy(context.Background(), "cust-1")
			if err != nil {
				t.Fatalf("SelectStrategy returned error: %v", err)
			}
			if strategy != tc.want {
				t.Errorf("completed=%d: expected %s, got %s", tc.completed, tc.want, strategy)
			}
		})
	}
}

func TestSelectStrategy_UnknownCustomer(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.SelectStrategy(context.Background(), "nobody")

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestQuote_FirstOrderDiscount(t *testing.T) {
	env := newTestEnv()

	total, strategy, _, days, err := env.svc.Quote(context.Background(), quoteRequest(2))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if strategy != domain.StrategyFirstOrder {
		t.Errorf("expected first_order, got %s", strategy)
	}
	if days != 2 {
		t.Errorf("expected 2 rental days, got %d", days)
	}
	// 100/day * 2 days * 0.85
	if total != 170 {
		t.Errorf("expected total 170, got %.2f", total)
	}
}

func TestQuote_DailyRateNoDiscount(t *testing.T) {
	env := newTestEnv()
	env.seedReservations("cust-1", domain.ReservationStatusCompleted, 2)

	total, strategy, _, _, err := env.svc.Quote(context.Background(), quoteRequest(3))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if strategy != domain.StrategyDaily {
		t.Errorf("expected daily, got %s", strategy)
	}
	if total != 300 {
		t.Errorf("expected total 300, got %.2f", total)
	}
}

func TestQuote_InsuranceAndAddOns(t *testing.T) {
	env := newTestEnv()
	env.seedReservations("cust-1", domain.ReservationStatusCompleted, 1)
	env.catalog.Tiers["tier-1"] = &domain.InsuranceTier{ID: "tier-1", Name: "Full", PricePerDay: 20}
	env.catalog.AddOns["gps"] = &domain.AddOn{ID: "gps", Name: "GPS", PricePerDay: 5}
	env.catalog.AddOns["seat"] = &domain.AddOn{ID: "seat", Name: "Child seat", PricePerDay: 3}

	req := quoteRequest(2)
	req.InsuranceTierID = "tier-1"
	req.AddOnIDs = []string{"gps", "seat"}

	total, _, snapshots, _, err := env.svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	// (100 + 20 + 5 + 3) * 2 days, no discount
	if total != 256 {
		t.Errorf("expected total 256, got %.2f", total)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 add-on snapshots, got %d", len(snapshots))
	}
	for _, s := range snapshots {
		if s.ID == "" || s.PricePerDay == 0 {
			t.Errorf("snapshot missing ID or price: %+v", s)
		}
	}
}

func TestQuote_UnknownAddOn(t *testing.T) {
	env := newTestEnv()
	env.catalog.AddOns["gps"] = &domain.AddOn{ID: "gps", Name: "GPS", PricePerDay: 5}

	req := quoteRequest(1)
	req.AddOnIDs = []string{"gps", "missing"}

	_, _, _, _, err := env.svc.Quote(context.Background(), req)

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown add-on, got %v", err)
	}
}

func TestCreateInsuranceTier_AssignsIDAndPersists(t *testing.T) {
	env := newTestEnv()

	tier, err := env.svc.CreateInsuranceTier(context.Background(), &domain.InsuranceTier{
		Name:        "Premium",
		PricePerDay: 25,
	})
	if err != nil {
		t.Fatalf("CreateInsuranceTier returned error: %v", err)
	}
	if tier.ID == "" {
		t.Error("expected an ID assigned to the tier")
	}
	if env.catalog.Tiers[tier.ID] == nil {
		t.Error("expected the tier persisted in the catalog")
	}
}

func TestCreateInsuranceTier_Invalid(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.CreateInsuranceTier(context.Background(), &domain.InsuranceTier{PricePerDay: 10}); err == nil {
		t.Error("expected error for a tier without a name")
	}
	if _, err := env.svc.CreateInsuranceTier(context.Background(), &domain.InsuranceTier{Name: "Basic", PricePerDay: -1}); err == nil {
		t.Error("expected error for a negative price")
	}
	if len(env.catalog.Tiers) != 0 {
		t.Error("invalid tiers must not be persisted")
	}
}

func TestCreateAddOn_Invalid(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.CreateAddOn(context.Background(), &domain.AddOn{PricePerDay: 5}); err == nil {
		t.Error("expected error for an add-on without a name")
	}
	if len(env.catalog.AddOns) != 0 {
		t.Error("invalid add-ons must not be persisted")
	}
}

func TestQuote_UsesCatalogEntriesCreatedThroughService(t *testing.T) {
	// End to end against an empty catalog: entries created through the
	// service must be quotable immediately.
	env := newTestEnv()
	env.seedReservations("cust-1", domain.ReservationStatusCompleted, 1)

	tier, err := env.svc.CreateInsuranceTier(context.Background(), &domain.InsuranceTier{Name: "Full", PricePerDay: 20})
	if err != nil {
		t.Fatalf("CreateInsuranceTier returned error: %v", err)
	}
	addOn, err := env.svc.CreateAddOn(context.Background(), &domain.AddOn{Name: "GPS", PricePerDay: 5})
	if err != nil {
		t.Fatalf("CreateAddOn returned error: %v", err)
	}

	req := quoteRequest(2)
	req.InsuranceTierID = tier.ID
	req.AddOnIDs = []string{addOn.ID}

	total, _, snapshots, _, err := env.svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	// (100 + 20 + 5) * 2 days, no discount
	if total != 250 {
		t.Errorf("expected total 250, got %.2f", total)
	}
	if len(snapshots) != 1 || snapshots[0].AddOnID != addOn.ID {
		t.Errorf("expected a snapshot of the created add-on, got %+v", snapshots)
	}
}

func TestListCatalog(t *testing.T) {
	env := newTestEnv()
	env.catalog.Tiers["tier-1"] = &domain.InsuranceTier{ID: "tier-1", Name: "Basic", PricePerDay: 10}
	env.catalog.AddOns["gps"] = &domain.AddOn{ID: "gps", Name: "GPS", PricePerDay: 5}

	tiers, err := env.svc.ListInsuranceTiers(context.Background())
	if err != nil {
		t.Fatalf("ListInsuranceTiers returned error: %v", err)
	}
	if len(tiers) != 1 {
		t.Errorf("expected 1 tier, got %d", len(tiers))
	}

	addOns, err := env.svc.ListAddOns(context.Background())
	if err != nil {
		t.Fatalf("ListAddOns returned error: %v", err)
	}
	if len(addOns) != 1 {
		t.Errorf("expected 1 add-on, got %d", len(addOns))
	}
}

func TestQuote_SubDayRentalCountsAsOneDay(t *testing.T) {
	env := newTestEnv()
	env.seedReservations("cust-1", domain.ReservationStatusCompleted, 1)

	req := quoteRequest(1)
	req.ReturnDate = req.PickupDate.Add(6 * time.Hour)

	total, _, _, days, err := env.svc.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if days != 1 {
		t.Errorf("expected 1 rental day minimum, got %d", days)
	}
	if total != 100 {
		t.Errorf("expected total 100, got %.2f", total)
	}
}
