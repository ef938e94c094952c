package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// OrdersTotal tracks placed orders and status changes by resulting status
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_orders_total",
			Help: "Canteen orders by status transition",
		},
		[]string{"status"},
	)

	// KitchenActiveOrders mirrors the simulated kitchen counter
	KitchenActiveOrders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "canteen_kitchen_active_orders",
			Help: "Active orders reported by the kitchen status",
		},
	)

	// EventRegistrations tracks registration attempts by result
	EventRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Event registration attempts",
		},
		[]string{"result"},
	)

	// LostFoundMatches tracks how many candidate matches each report produced
	LostFoundMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lostfound_candidate_matches",
			Help:    "Candidate matches found per lost/found report",
			Buckets: []float64{0, 1, 2, 5, 10},
		},
	)

	// NotificationsPublished counts fan-out events by name
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Realtime notifications published",
		},
		[]string{"event"},
	)

	// BrokerPublishFailures counts mirror publishes that were dropped or failed
	BrokerPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_broker_failures_total",
			Help: "Broker mirror publishes that failed or were dropped",
		},
		[]string{"broker", "reason"},
	)

	// SocketSubscribers tracks connected realtime clients
	SocketSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscribers",
			Help: "Connected realtime subscribers",
		},
	)

	// ChatRequests tracks chat completions by result
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat completion requests by result",
		},
		[]string{"result"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)
)
