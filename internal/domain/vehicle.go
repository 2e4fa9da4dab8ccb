package domain

import (
	"time"
)

// VehicleStatus represents the availability status of a vehicle.
// Status is the single source of truth for reservation eligibility.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusReserved     VehicleStatus = "reserved"
	VehicleStatusPickedUp     VehicleStatus = "picked_up"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	PlateNumber string        `json:"plate_number" gorm:"uniqueIndex"`
	Make        string        `json:"make"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Status      VehicleStatus `json:"status" gorm:"index"`
	PricePerDay float64       `json:"price_per_day"`
	Odometer    float64       `json:"odometer"` // kilometers
	BranchID    string        `json:"branch_id,omitempty" gorm:"index"`

	// Maintenance history, ordered by creation. Creating a record never
	// changes vehicle status; only approval does.
	MaintenanceRecords []MaintenanceRecord `json:"maintenance_records,omitempty" gorm:"foreignKey:VehicleID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAvailable returns true if the vehicle can accept a new reservation
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// MaintenanceRecord represents a logged service event on a vehicle.
// Only the approval of a record takes the vehicle out of service.
type MaintenanceRecord struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	VehicleID   string     `json:"vehicle_id" gorm:"index"`
	Description string     `json:"description"`
	Odometer    float64    `json:"odometer"` // snapshot at creation
	ServiceDate time.Time  `json:"service_date"`
	Approved    bool       `json:"approved"`
	CreatedBy   string     `json:"created_by"`            // agent ID
	ApprovedBy  string     `json:"approved_by,omitempty"` // manager ID, set on approval
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPending returns true if the record has been scheduled but not approved
func (m *MaintenanceRecord) IsPending() bool {
	return !m.Approved
}
