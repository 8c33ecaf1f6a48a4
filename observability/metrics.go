package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type simulationMetrics struct {
	transactions *prometheus.CounterVec
	violations   *prometheus.CounterVec
	feeEvents    prometheus.Counter
	rounds       prometheus.Histogram
}

var (
	simulationOnce     sync.Once
	simulationRegistry *simulationMetrics
)

// Simulation returns the metrics registry tracking pipeline runs.
func Simulation() *simulationMetrics {
	simulationOnce.Do(func() {
		simulationRegistry = &simulationMetrics{
			transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "feesim",
				Subsystem: "pipeline",
				Name:      "transactions_total",
				Help:      "Count of processed transactions segmented by outcome.",
			}, []string{"outcome"}),
			violations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "feesim",
				Subsystem: "invariants",
				Name:      "violations_total",
				Help:      "Count of invariant violations segmented by severity.",
			}, []string{"severity"}),
			feeEvents: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "feesim",
				Subsystem: "pipeline",
				Name:      "fee_events_total",
				Help:      "Count of fee events emitted across all runs.",
			}),
			rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "feesim",
				Subsystem: "pipeline",
				Name:      "rounds_per_transaction",
				Help:      "Distribution of round counts per processed transaction.",
				Buckets:   prometheus.LinearBuckets(1, 2, 10),
			}),
		}
		prometheus.MustRegister(
			simulationRegistry.transactions,
			simulationRegistry.violations,
			simulationRegistry.feeEvents,
			simulationRegistry.rounds,
		)
	})
	return simulationRegistry
}

// RecordTransaction counts one pipeline run and its shape.
func (m *simulationMetrics) RecordTransaction(outcome string, rounds, feeEvents int) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(outcome).Inc()
	m.rounds.Observe(float64(rounds))
	m.feeEvents.Add(float64(feeEvents))
}

// RecordViolation counts one invariant violation by severity.
func (m *simulationMetrics) RecordViolation(severity string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(severity).Inc()
}
