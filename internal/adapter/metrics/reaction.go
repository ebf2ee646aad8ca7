package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pscheid92/kudos/internal/domain"
)

// ReactionMetrics holds Prometheus metrics for the reaction pipeline.
// It implements engine.Metrics.
type ReactionMetrics struct {
	TogglesProcessed *prometheus.CounterVec
	LedgerEntries    *prometheus.CounterVec
}

// NewReactionMetrics creates and registers reaction pipeline metrics on the
// given registry.
func NewReactionMetrics(reg prometheus.Registerer) *ReactionMetrics {
	m := &ReactionMetrics{
		TogglesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaction_toggles_total",
			Help:      "Total number of reaction toggles processed, by result.",
		}, []string{"result"}),
		LedgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_written_total",
			Help:      "Total number of karma ledger entries written, by category.",
		}, []string{"category"}),
	}

	reg.MustRegister(m.TogglesProcessed, m.LedgerEntries)
	return m
}

func (m *ReactionMetrics) ToggleProcessed(result string) {
	m.TogglesProcessed.WithLabelValues(result).Inc()
}

func (m *ReactionMetrics) LedgerWritten(category domain.KarmaCategory) {
	m.LedgerEntries.WithLabelValues(string(category)).Inc()
}
