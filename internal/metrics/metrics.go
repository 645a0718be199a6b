package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "esklenchen"

// Metrics holds the service counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	valuations      *prometheus.CounterVec
	invalidRequests *prometheus.CounterVec
	leads           *prometheus.CounterVec
	leadFailures    prometheus.Counter
}

// New registers the service counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		valuations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "valuations_total",
			Help:      "Property valuations served, by sampled market trend.",
		}, []string{"trend"}),
		invalidRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_requests_total",
			Help:      "Requests rejected because of malformed input, by endpoint.",
		}, []string{"endpoint"}),
		leads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_total",
			Help:      "Leads persisted, by kind.",
		}, []string{"kind"}),
		leadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_store_failures_total",
			Help:      "Leads that could not be persisted after all retries.",
		}),
	}
}

func (m *Metrics) ObserveValuation(trend string) {
	if m == nil {
		return
	}
	m.valuations.WithLabelValues(trend).Inc()
}

func (m *Metrics) ObserveInvalidRequest(endpoint string) {
	if m == nil {
		return
	}
	m.invalidRequests.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) ObserveLead(kind string) {
	if m == nil {
		return
	}
	m.leads.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveLeadFailures(n int) {
	if m == nil {
		return
	}
	m.leadFailures.Add(float64(n))
}
