package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API server.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{duration: duration, requests: requests}
}

// ObserveRequest records one completed request.
func (h *HTTPMetrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	route = normalizeLabel(route)
	method = normalizeLabel(method)
	h.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
	h.requests.WithLabelValues(route, method, normalizeLabel(status)).Inc()
}

// CheckoutMetrics records order placement outcomes.
type CheckoutMetrics struct {
	attempts  *prometheus.CounterVec
	items     prometheus.Histogram
	totals    prometheus.Histogram
	duration  prometheus.Histogram
	conflicts prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_items",
		Help:    "Line items per placed order.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_total",
		Help:    "Grand total per placed order.",
		Buckets: prometheus.ExponentialBuckets(5, 2, 10),
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of the checkout transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stock_conflicts_total",
		Help: "Checkouts rejected for insufficient stock.",
	})
	reg.MustRegister(attempts, items, totals, duration, conflicts)
	return &CheckoutMetrics{
		attempts:  attempts,
		items:     items,
		totals:    totals,
		duration:  duration,
		conflicts: conflicts,
	}
}

// ObserveOrder records a successfully placed order.
func (c *CheckoutMetrics) ObserveOrder(itemCount int, total float64, elapsed time.Duration) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues("success").Inc()
	c.items.Observe(float64(itemCount))
	c.totals.Observe(total)
	c.duration.Observe(elapsed.Seconds())
}

// IncFailure records a failed checkout with the given outcome label.
func (c *CheckoutMetrics) IncFailure(outcome string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncStockConflict records a checkout rejected for insufficient stock.
func (c *CheckoutMetrics) IncStockConflict() {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.Inc()
	c.attempts.WithLabelValues("stock_conflict").Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
