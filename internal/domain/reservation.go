package domain

import (
	"time"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusApproved  ReservationStatus = "approved"
	ReservationStatusPickedUp  ReservationStatus = "picked_up"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ReservationOp identifies a lifecycle operation on a reservation
type ReservationOp string

const (
	OpApprove ReservationOp = "approve"
	OpPay     ReservationOp = "pay"
	OpPickup  ReservationOp = "pickup"
	OpReturn  ReservationOp = "return"
	OpCancel  ReservationOp = "cancel"
)

// transitionTable encodes which statuses permit each operation. Lifecycle
// ordering lives here, in one place, so the state machine is exhaustively
// testable instead of scattered across conditionals.
var transitionTable = map[ReservationOp]map[ReservationStatus]bool{
	OpApprove: {ReservationStatusPending: true},
	OpPay:     {ReservationStatusApproved: true},
	OpPickup:  {ReservationStatusApproved: true},
	OpReturn:  {ReservationStatusPickedUp: true},
	OpCancel: {
		ReservationStatusPending:  true,
		ReservationStatusApproved: true,
	},
}

// Allows reports whether op is permitted from the given status
func Allows(op ReservationOp, status ReservationStatus) bool {
	return transitionTable[op][status]
}

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusCompleted InvoiceStatus = "completed"
	InvoiceStatusFailed    InvoiceStatus = "failed"
)

// Invoice is attached to a reservation and tracks the amount due.
// Its total price auto-syncs whenever the reservation price changes.
type Invoice struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	ReservationID string        `json:"reservation_id" gorm:"index"`
	Status        InvoiceStatus `json:"status"`
	IssuedDate    time.Time     `json:"issued_date"`
	TotalPrice    float64       `json:"total_price"`
}

// InsuranceTier is a per-day priced coverage level selected at booking
type InsuranceTier struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"price_per_day"`
}

// AddOn is a catalog extra (GPS, child seat, ...) priced per day
type AddOn struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"price_per_day"`
}

// ReservationAddOn is a snapshot of an add-on at booking time. Snapshot
// pricing keeps historical reservations stable when catalog prices change.
type ReservationAddOn struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	ReservationID string  `json:"reservation_id" gorm:"index"`
	AddOnID       string  `json:"add_on_id"`
	Name          string  `json:"name"`
	PricePerDay   float64 `json:"price_per_day"`
}

// Reservation ties a customer, a vehicle and a payment outcome together.
// Terminal states are completed and cancelled.
type Reservation struct {
	ID               string             `json:"id" gorm:"primaryKey"`
	CustomerID       string             `json:"customer_id" gorm:"index"`
	VehicleID        string             `json:"vehicle_id" gorm:"index"`
	InsuranceTierID  string             `json:"insurance_tier_id,omitempty"`
	Status           ReservationStatus  `json:"status" gorm:"index"`
	PickupDate       time.Time          `json:"pickup_date"`
	ReturnDate       time.Time          `json:"return_date"`
	RentalDays       int                `json:"rental_days"`
	TotalPrice       float64            `json:"total_price"`
	Strategy         PricingStrategy    `json:"pricing_strategy"`
	PaymentConfirmed bool               `json:"payment_confirmed"`
	ApprovedBy       string             `json:"approved_by,omitempty"` // agent ID
	CancelReason     string             `json:"cancel_reason,omitempty"`
	AddOns           []ReservationAddOn `json:"add_ons,omitempty" gorm:"foreignKey:ReservationID"`
	Invoice          *Invoice           `json:"invoice,omitempty" gorm:"foreignKey:ReservationID"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`

	// Relations (for JSON responses)
	Customer *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Vehicle  *Vehicle  `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// IsCompleted returns true if the reservation reached its happy terminal state
func (r *Reservation) IsCompleted() bool {
	return r.Status == ReservationStatusCompleted
}

// IsActive returns true while the reservation still holds the vehicle
func (r *Reservation) IsActive() bool {
	switch r.Status {
	case ReservationStatusPending, ReservationStatusApproved, ReservationStatusPickedUp:
		return true
	}
	return false
}

// CanBeCancelled returns true while cancellation is still permitted
func (r *Reservation) CanBeCancelled() bool {
	return Allows(OpCancel, r.Status)
}

// ReadyForPickup returns true if the reservation is approved and paid for.
// Both conditions are required; the caller distinguishes which one failed.
func (r *Reservation) ReadyForPickup() bool {
	return r.Status == ReservationStatusApproved && r.PaymentConfirmed
}
