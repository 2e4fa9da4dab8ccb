package domain

import (
	"fmt"
)

// Domain errors are local, recoverable conditions surfaced to the caller.
// A failed precondition check returns immediately without partial mutation;
// none of these are fatal to the process.

// CarAlreadyReservedError is returned when a reservation is attempted
// against a vehicle that is not available
type CarAlreadyReservedError struct {
	VehicleID string
	Status    VehicleStatus
}

func (e *CarAlreadyReservedError) Error() string {
	return fmt.Sprintf("vehicle %s is not available (status: %s)", e.VehicleID, e.Status)
}

// InvalidTransitionError is returned when a lifecycle operation is attempted
// from a status that does not permit it
type InvalidTransitionError struct {
	ReservationID string
	Op            ReservationOp
	Status        ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation %s: cannot %s from status %q", e.ReservationID, e.Op, e.Status)
}

// ApprovalRequiredError is returned when pickup is attempted before the
// reservation has been approved by an agent
type ApprovalRequiredError struct {
	ReservationID string
	Status        ReservationStatus
}

func (e *ApprovalRequiredError) Error() string {
	return fmt.Sprintf("reservation %s is not approved yet (status: %s)", e.ReservationID, e.Status)
}

// PaymentRequiredError is returned when pickup is attempted on an approved
// but unpaid reservation
type PaymentRequiredError struct {
	ReservationID string
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("reservation %s cannot be picked up before payment", e.ReservationID)
}

// CancellationNotAllowedError is returned when cancel is attempted from
// picked_up, completed or cancelled
type CancellationNotAllowedError struct {
	ReservationID string
	Status        ReservationStatus
}

func (e *CancellationNotAllowedError) Error() string {
	return fmt.Sprintf("reservation %s with status %q cannot be cancelled", e.ReservationID, e.Status)
}

// MaintenanceNotFoundError is returned when maintenance approval references
// a record that does not exist or is not pending
type MaintenanceNotFoundError struct {
	VehicleID string
	RecordID  string
}

func (e *MaintenanceNotFoundError) Error() string {
	return fmt.Sprintf("no pending maintenance record %s on vehicle %s", e.RecordID, e.VehicleID)
}

// NotFoundError is returned when a referenced entity does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Kind, e.ID)
}
