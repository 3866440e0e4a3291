package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UsersRegistered prometheus.Counter
	DocumentUpdates *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "impulsa_users_registered_total",
			Help: "Progress records created",
		}),
		DocumentUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "impulsa_document_status_updates_total",
			Help: "Document review updates, labeled by status",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncUserRegistered() {
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncDocumentUpdate(status string) {
	m.DocumentUpdates.WithLabelValues(status).Inc()
}
