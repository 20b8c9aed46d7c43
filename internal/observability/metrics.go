package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	enrollmentOutcomes  *prometheus.CounterVec
	txRetriesTotal      prometheus.Counter
	purchaseEventsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the
// enrollment pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		enrollmentOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_outcomes_total",
			Help: "Enrollment attempts by terminal outcome.",
		}, []string{"outcome"})

		txRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_tx_retries_total",
			Help: "Store-level transaction conflicts that triggered a retry.",
		})

		purchaseEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "purchase_events_total",
			Help: "Purchase events consumed from the broker, by result.",
		}, []string{"result"})

		prometheus.MustRegister(enrollmentOutcomes, txRetriesTotal, purchaseEventsTotal)
	})
}

// EnrollmentOutcomes exposes the enrollment outcome counter.
func EnrollmentOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentOutcomes
}

// TxRetries exposes the transaction retry counter.
func TxRetries() prometheus.Counter {
	RegisterMetrics()
	return txRetriesTotal
}

// PurchaseEvents exposes the purchase event counter.
func PurchaseEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return purchaseEventsTotal
}
