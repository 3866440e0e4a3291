package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for mission progression.
type Metrics struct {
	AttemptsTotal     *prometheus.CounterVec
	CompletionLatency prometheus.Histogram
	PointsAwarded     prometheus.Counter
	LevelUps          prometheus.Counter
	BadgesAwarded     *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		AttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_mission_attempts_total",
			Help: "Mission attempts, labeled by outcome",
		}, []string{"outcome"}),
		CompletionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "impulsa_mission_completion_latency_seconds",
			Help:    "Latency of the atomic completion update in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		PointsAwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "impulsa_points_awarded_total",
			Help: "Total points credited by mission completions",
		}),
		LevelUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "impulsa_level_ups_total",
			Help: "Total level transitions",
		}),
		BadgesAwarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_badges_awarded_total",
			Help: "Badges awarded, labeled by badge",
		}, []string{"badge"}),
	}
}

func (m *Metrics) IncAttempt(outcome string) {
	m.AttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCompletionLatency(seconds float64) {
	m.CompletionLatency.Observe(seconds)
}

func (m *Metrics) AddPoints(points int) {
	m.PointsAwarded.Add(float64(points))
}

func (m *Metrics) IncLevelUp() {
	m.LevelUps.Inc()
}

func (m *Metrics) IncBadge(badgeID string) {
	m.BadgesAwarded.WithLabelValues(badgeID).Inc()
}
