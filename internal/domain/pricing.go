package domain

// PricingStrategy is a closed set of discount policies. The variant set is
// fixed and small, so selection is a pure function rather than a runtime
// polymorphic lookup.
type PricingStrategy string

const (
	// StrategyFirstOrder gives 15% off a customer's first reservation
	StrategyFirstOrder PricingStrategy = "first_order"
	// StrategyLoyalty gives 10% off every 5th completed order
	StrategyLoyalty PricingStrategy = "loyalty"
	// StrategyDaily is the regular rate with no discount
	StrategyDaily PricingStrategy = "daily"
)

const (
	firstOrderDiscount = 0.15
	loyaltyDiscount    = 0.10
)

// SelectStrategy picks the discount policy from the customer's COMPLETED
// reservation count. Cancelled and in-flight reservations never count; the
// first-order check short-circuits before the loyalty check.
func SelectStrategy(completedCount int) PricingStrategy {
	if completedCount == 0 {
		return StrategyFirstOrder
	}
	if (completedCount+1)%5 == 0 {
		return StrategyLoyalty
	}
	return StrategyDaily
}

// Discount returns the strategy's price reduction as a fraction
func (s PricingStrategy) Discount() float64 {
	switch s {
	case StrategyFirstOrder:
		return firstOrderDiscount
	case StrategyLoyalty:
		return loyaltyDiscount
	default:
		return 0
	}
}

// Apply returns the base price with the strategy's discount applied
func (s PricingStrategy) Apply(basePrice float64) float64 {
	return basePrice - basePrice*s.Discount()
}

// BasePrice computes the undiscounted total:
// (vehicle rate + insurance rate + sum of add-on rates) x rental days
func BasePrice(vehicleRate, insuranceRate float64, addOnRates []float64, rentalDays int) float64 {
	daily := vehicleRate + insuranceRate
	for _, r := range addOnRates {
		daily += r
	}
	return daily * float64(rentalDays)
}
