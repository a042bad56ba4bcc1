// Package metrics defines the Prometheus instruments of interest posting.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Posting outcomes.
const (
	OutcomeCreated   = "created"
	OutcomeCorrected = "corrected"
	OutcomeUnchanged = "unchanged"
)

// Run results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the interest posting instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	postings    *prometheus.CounterVec
	withholding prometheus.Counter
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// New registers the instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		postings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "savings_interest_postings_total",
			Help: "Interest posting periods reconciled, labeled by outcome",
		}, []string{"outcome"}),
		withholding: factory.NewCounter(prometheus.CounterOpts{
			Name: "savings_withholding_transactions_total",
			Help: "Withholding tax transactions created",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "savings_interest_runs_total",
			Help: "Interest posting runs per account, labeled by mode and result",
		}, []string{"mode", "result"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "savings_interest_run_duration_seconds",
			Help:    "Latency distribution of single-account interest posting runs",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObservePostings adds reconciled period counts.
func (m *Metrics) ObservePostings(created, corrected, unchanged, withholding int) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(OutcomeCreated).Add(float64(created))
	m.postings.WithLabelValues(OutcomeCorrected).Add(float64(corrected))
	m.postings.WithLabelValues(OutcomeUnchanged).Add(float64(unchanged))
	m.withholding.Add(float64(withholding))
}

// ObserveRun records one account run.
func (m *Metrics) ObserveRun(mode, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(mode, result).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}
