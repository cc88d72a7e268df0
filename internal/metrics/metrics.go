package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the platform's Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	OrdersCreated           prometheus.Counter
	StatusTransitions       *prometheus.CounterVec
	NotificationsDispatched *prometheus.CounterVec
	NotificationsSuppressed *prometheus.CounterVec
	CheckoutDuration        prometheus.Histogram
}

// NewRegistry creates an isolated registry with all collectors registered.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "neonfood_orders_created_total"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neonfood_order_status_transitions_total"}, []string{"status"})
	dispatched := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neonfood_notifications_dispatched_total"}, []string{"kind"})
	suppressed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "neonfood_notifications_suppressed_total"}, []string{"kind"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "neonfood_checkout_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(ordersCreated, transitions, dispatched, suppressed, checkoutDuration)

	return &Registry{
		reg:                     r,
		OrdersCreated:           ordersCreated,
		StatusTransitions:       transitions,
		NotificationsDispatched: dispatched,
		NotificationsSuppressed: suppressed,
		CheckoutDuration:        checkoutDuration,
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
