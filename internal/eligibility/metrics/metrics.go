package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for eligibility evaluation.
type Metrics struct {
	EvaluationsTotal  *prometheus.CounterVec
	EvaluationLatency prometheus.Histogram
	CacheLookups      *prometheus.CounterVec
	RulesAuthored     prometheus.Counter
}

// New registers and returns eligibility metrics collectors.
func New() *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_eligibility_evaluations_total",
			Help: "Total eligibility evaluations, labeled by resulting status",
		}, []string{"status"}),
		EvaluationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "impulsa_eligibility_evaluation_latency_seconds",
			Help:    "Latency of a single-target eligibility evaluation in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_eligibility_cache_lookups_total",
			Help: "Eligibility cache lookups, labeled by hit or miss",
		}, []string{"result"}),
		RulesAuthored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "impulsa_eligibility_rules_authored_total",
			Help: "Total eligibility rules accepted by authoring",
		}),
	}
}

func (m *Metrics) IncEvaluation(status string) {
	m.EvaluationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveEvaluationLatency(seconds float64) {
	m.EvaluationLatency.Observe(seconds)
}

func (m *Metrics) IncCacheHit() {
	m.CacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) IncCacheMiss() {
	m.CacheLookups.WithLabelValues("miss").Inc()
}
