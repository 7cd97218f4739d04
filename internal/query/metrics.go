package query

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/wavequery/internal/enum"
)

// Metrics holds the Prometheus metrics for Readers.
// A nil *Metrics records nothing.
type Metrics struct {
	Queries        *prometheus.CounterVec
	EnumAttributes *prometheus.CounterVec
	EnumTables     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wavequery_queries_total",
		Help: "Reader queries by operation and outcome",
	}, []string{"op", "outcome"})

	enumAttributes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wavequery_enum_attributes_total",
		Help: "Enum attribute encodings seen while opening traces, by parse status",
	}, []string{"status"})

	enumTables := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wavequery_enum_tables",
		Help: "Enum tables registered by the most recently opened trace",
	})

	reg.MustRegister(queries, enumAttributes, enumTables)

	return &Metrics{
		Queries:        queries,
		EnumAttributes: enumAttributes,
		EnumTables:     enumTables,
	}
}

func (m *Metrics) observeQuery(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = kindOf(err).String()
	}
	m.Queries.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) observeRegistry(reg *enum.Registry, results []enum.Result) {
	if m == nil {
		return
	}
	for _, res := range results {
		m.EnumAttributes.WithLabelValues(res.Status.String()).Inc()
	}
	m.EnumTables.Set(float64(reg.Len()))
}
