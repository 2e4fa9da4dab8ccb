package notification

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/adapter/queue"
	"github.com/fleetops-io/crfms/internal/domain"
)

// Worker bridges the message broker to the in-process observer hub so
// events published by other service instances still reach local
// subscribers.
type Worker struct {
	mq      queue.MessageQueue
	manager *Manager
	log     *zap.Logger
}

// NewWorker creates a broker-driven notification worker
func NewWorker(mq queue.MessageQueue, manager *Manager, log *zap.Logger) *Worker {
	return &Worker{
		mq:      mq,
		manager: manager,
		log:     log,
	}
}

// Start subscribes to every domain event subject. Returns on the first
// subscription failure.
func (w *Worker) Start() error {
	subjects := []string{
		domain.EventReservationCreated,
		domain.EventReservationApproved,
		domain.EventReservationCancelled,
		domain.EventPickupCompleted,
		domain.EventReturnCompleted,
		domain.EventInvoicePaid,
		domain.EventInvoicePaymentFailed,
		domain.EventMaintenanceApproved,
	}

	for _, subject := range subjects {
		if err := w.mq.Subscribe(subject, w.handle); err != nil {
			return err
		}
	}

	w.log.Info("Notification worker started", zap.Int("subjects", len(subjects)))
	return nil
}

func (w *Worker) handle(data []byte) error {
	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		w.log.Error("Failed to decode event", zap.Error(err))
		return err
	}
	w.manager.Notify(event)
	return nil
}
