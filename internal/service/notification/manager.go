package notification

import (
	"sync"

	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/observability/telemetry"
)

// Subscriber receives lifecycle events and renders them to a message string.
// Rendering is separate from output so it stays independently testable; the
// output channel is an external collaborator.
type Subscriber interface {
	Name() string
	Receive(event domain.Event) string
}

// Sink is the output collaborator that receives rendered messages
type Sink interface {
	Write(subscriber, message string)
}

// ZapSink writes rendered notifications to the structured log
type ZapSink struct {
	Log *zap.Logger
}

func (s *ZapSink) Write(subscriber, message string) {
	s.Log.Info("Notification delivered",
		zap.String("subscriber", subscriber),
		zap.String("message", message),
	)
}

// Manager is the observer hub. It holds an explicit list of subscribers and
// delivers events synchronously in attachment order. It does not own
// subscriber lifetimes; detaching never destroys the subscriber.
type Manager struct {
	mu          sync.Mutex
	subscribers []Subscriber
	sink        Sink
	log         *zap.Logger
}

// NewManager creates a notification manager writing to the given sink
func NewManager(sink Sink, log *zap.Logger) *Manager {
	return &Manager{
		sink: sink,
		log:  log,
	}
}

// Attach registers a subscriber at the end of the delivery order
func (m *Manager) Attach(sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, sub)
}

// Detach removes a subscriber; detaching a non-member is a no-op
func (m *Manager) Detach(sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.subscribers {
		if s == sub {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return
		}
	}
}

// Subscribers returns a snapshot of the current delivery order
func (m *Manager) Subscribers() []Subscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Subscriber, len(m.subscribers))
	copy(out, m.subscribers)
	return out
}

// Notify delivers the event to every attached subscriber in attachment
// order. A panicking subscriber is isolated so the broadcast reaches the
// rest.
func (m *Manager) Notify(event domain.Event) {
	for _, sub := range m.Subscribers() {
		m.deliver(sub, event)
	}
}

func (m *Manager) deliver(sub Subscriber, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Subscriber panicked during delivery",
				zap.String("subscriber", sub.Name()),
				zap.String("event_type", event.Type),
				zap.Any("panic", r),
			)
		}
	}()

	msg := sub.Receive(event)
	if msg == "" {
		return
	}
	telemetry.NotificationDeliveriesTotal.WithLabelValues(sub.Name()).Inc()
	if m.sink != nil {
		m.sink.Write(sub.Name(), msg)
	}
}
