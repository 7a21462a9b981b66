package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics counts checkout outcomes and their latency.
type CheckoutMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Amounts   *prometheus.CounterVec
}

// NewCheckoutMetrics creates and registers the checkout collectors on reg.
func NewCheckoutMetrics(reg prometheus.Registerer, source string) *CheckoutMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Subsystem: source,
		Name:      "requests_total",
		Help:      "Checkout requests by outcome and rejection reason.",
	}, []string{"outcome", "reason"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "checkout",
		Subsystem: source,
		Name:      "duration_ms",
		Help:      "Checkout handling latency in milliseconds.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250},
	}, []string{"outcome"})
	amounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Subsystem: source,
		Name:      "amount_total",
		Help:      "Sum of computed amounts by component.",
	}, []string{"component"})

	reg.MustRegister(requests, latency, amounts)
	return &CheckoutMetrics{Requests: requests, LatencyMS: latency, Amounts: amounts}
}

// ObserveSuccess records an accepted checkout.
func (m *CheckoutMetrics) ObserveSuccess(durationMS float64, subtotal, discount, tax, total int64) {
	m.Requests.WithLabelValues("ok", "").Inc()
	m.LatencyMS.WithLabelValues("ok").Observe(durationMS)
	m.Amounts.WithLabelValues("subtotal").Add(float64(subtotal))
	m.Amounts.WithLabelValues("discount").Add(float64(discount))
	m.Amounts.WithLabelValues("tax").Add(float64(tax))
	m.Amounts.WithLabelValues("total").Add(float64(total))
}

// ObserveRejection records a checkout rejected for reason.
func (m *CheckoutMetrics) ObserveRejection(durationMS float64, reason string) {
	m.Requests.WithLabelValues("rejected", reason).Inc()
	m.LatencyMS.WithLabelValues("rejected").Observe(durationMS)
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
