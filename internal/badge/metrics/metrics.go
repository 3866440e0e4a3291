package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for standalone badge sweeps.
type Metrics struct {
	SweepsTotal *prometheus.CounterVec
	SweepAwards prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SweepsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_badge_sweeps_total",
			Help: "Standalone badge sweeps, labeled by result",
		}, []string{"result"}),
		SweepAwards: promauto.NewCounter(prometheus.CounterOpts{
			Name: "impulsa_badge_sweep_awards_total",
			Help: "Badges granted by standalone sweeps",
		}),
	}
}

func (m *Metrics) IncSweep(result string) {
	m.SweepsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) AddAwards(n int) {
	m.SweepAwards.Add(float64(n))
}
