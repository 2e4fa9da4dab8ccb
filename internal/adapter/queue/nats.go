package queue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/pkg/config"
)

// NATSQueue is the default event broker. Reservation events are fire-and-
// forget here; durable delivery is the RabbitMQ adapter's job.
type NATSQueue struct {
	conn   *nats.Conn
	prefix string
	log    *zap.Logger
}

// NewNATSQueue connects to NATS with the reconnect policy from config
func NewNATSQueue(cfg config.NATSConfig, log *zap.Logger) (MessageQueue, error) {
	maxReconnects := cfg.MaxReconnects
	if maxReconnects == 0 {
		maxReconnects = 10
	}
	reconnectWait := cfg.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	nc, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.Timeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Successfully connected to NATS",
		zap.String("url", cfg.URL),
		zap.String("subject_prefix", cfg.SubjectPrefix),
	)
	return &NATSQueue{
		conn:   nc,
		prefix: cfg.SubjectPrefix,
		log:    log,
	}, nil
}

func (q *NATSQueue) Publish(subject string, data []byte) error {
	return q.conn.Publish(subjectName(q.prefix, subject), data)
}

func (q *NATSQueue) Subscribe(subject string, handler func(data []byte) error) error {
	_, err := q.conn.Subscribe(subjectName(q.prefix, subject), func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			q.log.Error("Error processing event", zap.String("subject", subject), zap.Error(err))
		}
	})
	return err
}

func (q *NATSQueue) Close() error {
	q.conn.Close()
	return nil
}
