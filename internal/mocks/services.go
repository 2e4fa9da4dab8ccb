package mocks

import (
	"context"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type MockPricingService struct {
	SelectStrategyFunc      func(ctx context.Context, customerID string) (domain.PricingStrategy, error)
	QuoteFunc               func(ctx context.Context, req *ports.CreateReservationRequest) (float64, domain.PricingStrategy, []domain.ReservationAddOn, int, error)
	CreateInsuranceTierFunc func(ctx context.Context, tier *domain.InsuranceTier) (*domain.InsuranceTier, error)
	CreateAddOnFunc         func(ctx context.Context, addOn *domain.AddOn) (*domain.AddOn, error)
	ListInsuranceTiersFunc  func(ctx context.Context) ([]domain.InsuranceTier, error)
	ListAddOnsFunc          func(ctx context.Context) ([]domain.AddOn, error)
}

func (m *MockPricingService) SelectStrategy(ctx context.Context, customerID string) (domain.PricingStrategy, error) {
	if m.SelectStrategyFunc != nil {
		return m.SelectStrategyFunc(ctx, customerID)
	}
	return domain.StrategyDaily, nil
}

func (m *MockPricingService) Quote(ctx context.Context, req *ports.CreateReservationRequest) (float64, domain.PricingStrategy, []domain.ReservationAddOn, int, error) {
	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, req)
	}
	return 100.0, domain.StrategyDaily, nil, 1, nil
}

func (m *MockPricingService) CreateInsuranceTier(ctx context.Context, tier *domain.InsuranceTier) (*domain.InsuranceTier, error) {
	if m.CreateInsuranceTierFunc != nil {
		return m.CreateInsuranceTierFunc(ctx, tier)
	}
	return tier, nil
}

func (m *MockPricingService) CreateAddOn(ctx context.Context, addOn *domain.AddOn) (*domain.AddOn, error) {
	if m.CreateAddOnFunc != nil {
		return m.CreateAddOnFunc(ctx, addOn)
	}
	return addOn, nil
}

func (m *MockPricingService) ListInsuranceTiers(ctx context.Context) ([]domain.InsuranceTier, error) {
	if m.ListInsuranceTiersFunc != nil {
		return m.ListInsuranceTiersFunc(ctx)
	}
	return nil, nil
}

func (m *MockPricingService) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	if m.ListAddOnsFunc != nil {
		return m.ListAddOnsFunc(ctx)
	}
	return nil, nil
}

type MockPaymentService struct {
	ProcessPaymentFunc func(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Payment, error)
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, reservationID string, method domain.PaymentMethod) (*domain.Payment, error) {
	if m.ProcessPaymentFunc != nil {
		return m.ProcessPaymentFunc(ctx, reservationID, method)
	}
	return &domain.Payment{
		ReservationID: reservationID,
		Method:        method,
		Status:        domain.PaymentStatusSucceeded,
	}, nil
}

type MockPaymentProvider struct {
	ProviderName string
	ChargeFunc   func(ctx context.Context, amount float64, currency string, metadata map[string]string) (string, error)
}

func (m *MockPaymentProvider) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockPaymentProvider) Charge(ctx context.Context, amount float64, currency string, metadata map[string]string) (string, error) {
	if m.ChargeFunc != nil {
		return m.ChargeFunc(ctx, amount, currency, metadata)
	}
	return "ch_mock_123", nil
}

type MockNotifier struct {
	Events     []domain.Event
	NotifyFunc func(event domain.Event)
}

func (m *MockNotifier) Notify(event domain.Event) {
	if m.NotifyFunc != nil {
		m.NotifyFunc(event)
		return
	}
	m.Events = append(m.Events, event)
}
