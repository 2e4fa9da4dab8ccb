package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	ReservationTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crfms_reservation_transitions_total",
		Help: "Reservation lifecycle transitions by event type",
	}, []string{"event"})

	NotificationDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crfms_notification_deliveries_total",
		Help: "Notifications delivered by subscriber",
	}, []string{"subscriber"})

	PaymentOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crfms_payment_outcomes_total",
		Help: "Payment attempts by provider and outcome",
	}, []string{"provider", "status"})

	ActiveRentals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crfms_active_rentals",
		Help: "Vehicles currently picked up",
	})

	// Infrastructure metrics
	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crfms_database_latency_seconds",
		Help:    "Latency of database queries",
		Buckets: prometheus.DefBuckets,
	})
)
