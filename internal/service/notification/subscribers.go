package notification

import (
	"fmt"

	"github.com/fleetops-io/crfms/internal/domain"
)

// CustomerSubscriber renders lifecycle events from the customer's point of
// view
type CustomerSubscriber struct{}

func (CustomerSubscriber) Name() string { return "customer" }

func (CustomerSubscriber) Receive(event domain.Event) string {
	switch event.Type {
	case domain.EventReservationCreated:
		return fmt.Sprintf("Your reservation %s is pending approval", event.ReservationID)
	case domain.EventReservationApproved:
		return fmt.Sprintf("Your reservation %s has been approved; please complete payment before pickup", event.ReservationID)
	case domain.EventInvoicePaid:
		return fmt.Sprintf("Payment received for reservation %s", event.ReservationID)
	case domain.EventInvoicePaymentFailed:
		return fmt.Sprintf("Payment failed for reservation %s; please try again", event.ReservationID)
	case domain.EventPickupCompleted:
		return fmt.Sprintf("Enjoy your trip! Vehicle %s is yours until return", event.VehicleID)
	case domain.EventReturnCompleted:
		return fmt.Sprintf("Thanks for returning vehicle %s; reservation %s is complete", event.VehicleID, event.ReservationID)
	case domain.EventReservationCancelled:
		return fmt.Sprintf("Your reservation %s has been cancelled", event.ReservationID)
	}
	return ""
}

// AgentSubscriber renders lifecycle events for the branch agent's work queue
type AgentSubscriber struct{}

func (AgentSubscriber) Name() string { return "agent" }

func (AgentSubscriber) Receive(event domain.Event) string {
	switch event.Type {
	case domain.EventReservationCreated:
		return fmt.Sprintf("New reservation %s for vehicle %s awaits approval", event.ReservationID, event.VehicleID)
	case domain.EventReservationCancelled:
		return fmt.Sprintf("Reservation %s cancelled; vehicle %s is back in the pool", event.ReservationID, event.VehicleID)
	case domain.EventPickupCompleted:
		return fmt.Sprintf("Vehicle %s handed over for reservation %s", event.VehicleID, event.ReservationID)
	case domain.EventReturnCompleted:
		return fmt.Sprintf("Vehicle %s returned; inspect and release", event.VehicleID)
	case domain.EventMaintenanceApproved:
		return fmt.Sprintf("Vehicle %s is out of service for maintenance", event.VehicleID)
	}
	return ""
}
