package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records checkout and reconciliation outcomes.
type PaymentMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkouts        *prometheus.CounterVec
	reconciliations  *prometheus.CounterVec
	transitions      *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_type"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions",
		Help: "Checkout submissions by payment type and outcome.",
	}, []string{"payment_type", "outcome"})
	reconciliations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliations",
		Help: "Reconciliation polls by gateway transaction status.",
	}, []string{"transaction_status"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions",
		Help: "Applied order status transitions.",
	}, []string{"from", "to"})
	reg.MustRegister(checkoutDuration, checkouts, reconciliations, transitions)
	return &PaymentMetrics{
		checkoutDuration: checkoutDuration,
		checkouts:        checkouts,
		reconciliations:  reconciliations,
		transitions:      transitions,
	}
}

// ObserveCheckoutDuration records how long a checkout submission took.
func (p *PaymentMetrics) ObserveCheckoutDuration(paymentType string, duration time.Duration) {
	if p == nil || p.checkoutDuration == nil {
		return
	}
	p.checkoutDuration.WithLabelValues(normalizeLabel(paymentType)).Observe(duration.Seconds())
}

// IncCheckout increments the checkout counter for the given outcome.
func (p *PaymentMetrics) IncCheckout(paymentType, outcome string) {
	if p == nil || p.checkouts == nil {
		return
	}
	p.checkouts.WithLabelValues(normalizeLabel(paymentType), normalizeLabel(outcome)).Inc()
}

// IncReconciliation counts one reconciliation poll by observed status.
func (p *PaymentMetrics) IncReconciliation(transactionStatus string) {
	if p == nil || p.reconciliations == nil {
		return
	}
	p.reconciliations.WithLabelValues(normalizeLabel(transactionStatus)).Inc()
}

// IncTransition counts one applied order status transition.
func (p *PaymentMetrics) IncTransition(from, to string) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
