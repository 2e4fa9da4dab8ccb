package domain

import (
	"testing"
	"time"
)

func activeRental(dueAt time.Time) *Rental {
	return &Rental{
		ID:              "rent-1",
		Status:          RentalStatusActive,
		PickupOdometer:  10000,
		PickupFuelLevel: 1.0,
		DueAt:           dueAt,
	}
}

func TestComputeCharges_OnTimeWithinAllowance(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)

	charges := ComputeCharges(r, RentalReading{
		Odometer:  10150,
		FuelLevel: 1.0,
		ReadAt:    due.Add(-time.Hour),
	}, 2)

	if charges.Total != 0 {
		t.Errorf("expected no charges, got %+v", charges)
	}
}

func TestComputeCharges_GracePeriod(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)

	charges := ComputeCharges(r, RentalReading{
		Odometer:  10100,
		FuelLevel: 1.0,
		ReadAt:    due.Add(59 * time.Minute),
	}, 1)

	if charges.LateFee != 0 {
		t.Errorf("return within the grace hour must not be charged, got %.2f", charges.LateFee)
	}
}

func TestComputeCharges_LateFeeRoundsUpStartedHours(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)

	// 2h30m past due+grace charges 3 started hours.
	charges := ComputeCharges(r, RentalReading{
		Odometer:  10100,
		FuelLevel: 1.0,
		ReadAt:    due.Add(time.Hour + 2*time.Hour + 30*time.Minute),
	}, 1)

	if charges.LateFee != 3*LateFeePerHour {
		t.Errorf("expected late fee %.2f, got %.2f", 3*LateFeePerHour, charges.LateFee)
	}
}

func TestComputeCharges_MileageOverage(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)

	// 2-day allowance is 400 km; driving 460 charges 60 km at 0.50.
	charges := ComputeCharges(r, RentalReading{
		Odometer:  10460,
		FuelLevel: 1.0,
		ReadAt:    due,
	}, 2)

	if charges.MileageOverage != 30 {
		t.Errorf("expected mileage overage 30, got %.2f", charges.MileageOverage)
	}
}

func TestComputeCharges_FuelProportional(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)

	charges := ComputeCharges(r, RentalReading{
		Odometer:  10050,
		FuelLevel: 0.25,
		ReadAt:    due,
	}, 1)

	if charges.FuelCharge != 0.75*FuelRefillRate {
		t.Errorf("expected fuel charge %.2f, got %.2f", 0.75*FuelRefillRate, charges.FuelCharge)
	}
}

func TestComputeCharges_FuelAbovePickupIsFree(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)
	r.PickupFuelLevel = 0.5

	charges := ComputeCharges(r, RentalReading{
		Odometer:  10050,
		FuelLevel: 0.9,
		ReadAt:    due,
	}, 1)

	if charges.FuelCharge != 0 {
		t.Errorf("returning with more fuel must not be charged, got %.2f", charges.FuelCharge)
	}
}

func TestComputeCharges_TotalSumsComponents(t *testing.T) {
	due := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	r := activeRental(due)

	charges := ComputeCharges(r, RentalReading{
		Odometer:  10500, // 100 km over a 2-day allowance
		FuelLevel: 0.5,
		ReadAt:    due.Add(3 * time.Hour), // 2 started hours past grace
	}, 2)

	want := charges.LateFee + charges.MileageOverage + charges.FuelCharge
	if charges.Total != want {
		t.Errorf("total %.2f does not equal component sum %.2f", charges.Total, want)
	}
	if charges.LateFee != 20 || charges.MileageOverage != 50 || charges.FuelCharge != 25 {
		t.Errorf("unexpected component breakdown: %+v", charges)
	}
}
