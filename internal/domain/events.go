package domain

import (
	"time"
)

// Domain event subjects published on the message broker. Routing keys match
// the subject so consumers can bind per event type.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationApproved  = "reservation.approved"
	EventReservationCancelled = "reservation.cancelled"
	EventPickupCompleted      = "rental.pickup_completed"
	EventReturnCompleted      = "rental.return_completed"
	EventInvoicePaid          = "invoice.paid"
	EventInvoicePaymentFailed = "invoice.payment_failed"
	EventMaintenanceApproved  = "maintenance.approved"
)

// ActorRole identifies who triggered a lifecycle transition. Roles are
// resolved by the auth layer before they reach the core.
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleAgent    ActorRole = "agent"
	RoleManager  ActorRole = "manager"
	RoleSystem   ActorRole = "system"
)

// Event carries a lifecycle transition to subscribers. Every successful
// transition publishes exactly one event; failed preconditions never publish.
type Event struct {
	Type          string            `json:"type"`
	ReservationID string            `json:"reservation_id,omitempty"`
	VehicleID     string            `json:"vehicle_id,omitempty"`
	CustomerID    string            `json:"customer_id,omitempty"`
	Status        ReservationStatus `json:"status,omitempty"`
	Actor         ActorRole         `json:"actor"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
