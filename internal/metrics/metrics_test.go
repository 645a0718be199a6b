package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveValuation("positive")
	m.ObserveValuation("positive")
	m.ObserveValuation("stable")
	m.ObserveInvalidRequest("property-analysis")
	m.ObserveLead("contact")
	m.ObserveLeadFailures(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.valuations.WithLabelValues("positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.valuations.WithLabelValues("stable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidRequests.WithLabelValues("property-analysis")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leads.WithLabelValues("contact")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.leadFailures))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveValuation("negative")
		m.ObserveInvalidRequest("contact")
		m.ObserveLead("renovation")
		m.ObserveLeadFailures(1)
	})
}
