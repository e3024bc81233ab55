package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{Namespace: "delivery_tracker", Name: "orders_created_total", Help: "Total orders created"})

	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "delivery_tracker", Name: "order_transitions_total", Help: "Order status transition attempts"},
		[]string{"action", "outcome"},
	)

	LocationSamples   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "delivery_tracker", Name: "location_samples_total", Help: "Location samples persisted"})
	BroadcastsDropped = promauto.NewCounter(prometheus.CounterOpts{Namespace: "delivery_tracker", Name: "broadcasts_dropped_total", Help: "Location events dropped because a queue was full"})
	LiveSessions      = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "delivery_tracker", Name: "live_sessions", Help: "Open websocket sessions"})
)
