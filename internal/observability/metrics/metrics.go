package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics exposes counters for mutating operations and ledger growth.
type Metrics struct {
	mutations      *prometheus.CounterVec
	historyEntries *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "mutations_total",
			Help:      "Mutating operations by collection, action and outcome.",
		}, []string{"collection", "action", "outcome"}),
		historyEntries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "history_entries_total",
			Help:      "History ledger entries appended, by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) RecordMutation(collection, action string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mutations.WithLabelValues(collection, action, outcome).Inc()
}

func (m *Metrics) RecordHistoryEntry(kind string) {
	if m == nil {
		return
	}
	m.historyEntries.WithLabelValues(kind).Inc()
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
