package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for eligibility tokens.
type Metrics struct {
	TokensIssued  *prometheus.CounterVec
	Verifications *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		TokensIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_eligibility_tokens_issued_total",
			Help: "Eligibility tokens issued, labeled by embedded status",
		}, []string{"status"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_eligibility_token_verifications_total",
			Help: "Eligibility token verifications, labeled by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncIssued(status string) {
	m.TokensIssued.WithLabelValues(status).Inc()
}

func (m *Metrics) IncVerification(result string) {
	m.Verifications.WithLabelValues(result).Inc()
}
