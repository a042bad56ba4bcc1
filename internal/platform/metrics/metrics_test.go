package metrics_test

import (
	"testing"
	"time"

	"github.com/SscSPs/savings_servicing/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObservePostings(2, 1, 3, 1)
	m.ObserveRun("pivot", metrics.ResultSuccess, 20*time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "savings_interest_postings_total")
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(reg, "savings_interest_runs_total", "savings_interest_run_duration_seconds", "savings_withholding_transactions_total")
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObservePostings(1, 1, 1, 1)
		m.ObserveRun("full", metrics.ResultFailure, time.Second)
	})
}
