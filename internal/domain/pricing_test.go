package domain

import "testing"

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		completed int
		want      PricingStrategy
	}{
		{0, StrategyFirstOrder},
		{1, StrategyDaily},
		{2, StrategyDaily},
		{3, StrategyDaily},
		{4, StrategyLoyalty},
		{5, StrategyDaily},
		{8, StrategyDaily},
		{9, StrategyLoyalty},
		{14, StrategyLoyalty},
	}
	for _, tc := range cases {
		if got := SelectStrategy(tc.completed); got != tc.want {
			t.Errorf("SelectStrategy(%d) = %s, want %s", tc.completed, got, tc.want)
		}
	}
}

func TestStrategyApply(t *testing.T) {
	cases := []struct {
		strategy PricingStrategy
		base     float64
		want     float64
	}{
		{StrategyFirstOrder, 200, 170},
		{StrategyLoyalty, 200, 180},
		{StrategyDaily, 200, 200},
		{PricingStrategy("unknown"), 200, 200},
	}
	for _, tc := range cases {
		if got := tc.strategy.Apply(tc.base); got != tc.want {
			t.Errorf("%s.Apply(%.0f) = %.2f, want %.2f", tc.strategy, tc.base, got, tc.want)
		}
	}
}

func TestBasePrice(t *testing.T) {
	// (100 vehicle + 20 insurance + 5 + 3 add-ons) * 3 days
	got := BasePrice(100, 20, []float64{5, 3}, 3)
	if got != 384 {
		t.Errorf("BasePrice = %.2f, want 384", got)
	}

	if got := BasePrice(80, 0, nil, 1); got != 80 {
		t.Errorf("BasePrice without extras = %.2f, want 80", got)
	}
}
