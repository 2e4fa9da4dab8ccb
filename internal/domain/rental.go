package domain

import (
	"math"
	"time"
)

// Charge rule constants for rental settlement
const (
	LateFeePerHour   = 10.0 // after the grace period
	GracePeriod      = time.Hour
	DailyKmAllowance = 200.0
	OveragePerKm     = 0.5
	FuelRefillRate   = 50.0 // full tank, charged proportionally
)

// RentalStatus represents the state of an active rental
type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
)

// RentalReading captures odometer and fuel level at pickup or return
type RentalReading struct {
	Odometer  float64   `json:"odometer"`
	FuelLevel float64   `json:"fuel_level"` // 0.0 (empty) to 1.0 (full)
	ReadAt    time.Time `json:"read_at"`
}

// RentalCharges itemizes the settlement computed at return
type RentalCharges struct {
	LateFee        float64 `json:"late_fee"`
	MileageOverage float64 `json:"mileage_overage"`
	FuelCharge     float64 `json:"fuel_charge"`
	Total          float64 `json:"total"`
}

// Rental represents actual vehicle usage, separate from the reservation
// booking intent. Created at pickup with readings, settled at return.
type Rental struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	ReservationID string       `json:"reservation_id" gorm:"index"`
	VehicleID     string       `json:"vehicle_id" gorm:"index"`
	Status        RentalStatus `json:"status" gorm:"index"`
	PickupToken   string       `json:"pickup_token" gorm:"uniqueIndex"` // idempotent pickup

	PickupOdometer  float64    `json:"pickup_odometer"`
	PickupFuelLevel float64    `json:"pickup_fuel_level"`
	PickedUpAt      time.Time  `json:"picked_up_at"`
	DueAt           time.Time  `json:"due_at"`
	ReturnOdometer  float64    `json:"return_odometer,omitempty"`
	ReturnFuelLevel float64    `json:"return_fuel_level,omitempty"`
	ReturnedAt      *time.Time `json:"returned_at,omitempty"`

	LateFee        float64 `json:"late_fee"`
	MileageOverage float64 `json:"mileage_overage"`
	FuelCharge     float64 `json:"fuel_charge"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReturned returns true once the rental has been settled
func (r *Rental) IsReturned() bool {
	return r.ReturnedAt != nil
}

// ComputeCharges settles a rental against the return reading.
// Late fee: $10 per started hour past due time plus one hour of grace.
// Mileage: $0.50 per km over 200 km per rental day.
// Fuel: $50 times the fraction of tank missing relative to pickup.
func ComputeCharges(r *Rental, ret RentalReading, rentalDays int) RentalCharges {
	var c RentalCharges

	deadline := r.DueAt.Add(GracePeriod)
	if ret.ReadAt.After(deadline) {
		hoursLate := math.Ceil(ret.ReadAt.Sub(deadline).Hours())
		c.LateFee = hoursLate * LateFeePerHour
	}

	allowance := DailyKmAllowance * float64(rentalDays)
	driven := ret.Odometer - r.PickupOdometer
	if driven > allowance {
		c.MileageOverage = (driven - allowance) * OveragePerKm
	}

	if ret.FuelLevel < r.PickupFuelLevel {
		c.FuelCharge = (r.PickupFuelLevel - ret.FuelLevel) * FuelRefillRate
	}

	c.Total = c.LateFee + c.MileageOverage + c.FuelCharge
	return c
}
