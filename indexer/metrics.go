package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "trustful_indexer"

type metrics struct {
	blocks prometheus.Counter
	events *prometheus.CounterVec
	height prometheus.Gauge
	errors prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		blocks: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blocks_processed_total",
			Help:      "Number of processed blocks.",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Number of indexed factory notifications by name.",
		}, []string{"event"}),
		height: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "next_block",
			Help:      "Index of the next block to be processed.",
		}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_errors_total",
			Help:      "Number of failed polling rounds.",
		}),
	}
}
