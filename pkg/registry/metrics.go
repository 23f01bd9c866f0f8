package registry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics the registry records per aspect.
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the search metrics on the given registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_searches_total",
				Help: "Total number of per-aspect searches",
			},
			[]string{"category", "status"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quill_search_duration_seconds",
				Help:    "Per-aspect search duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"category"},
		),
	}

	reg.MustRegister(m.SearchesTotal, m.SearchDuration)
	return m
}

func (m *Metrics) observe(category string, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.SearchesTotal.WithLabelValues(category, status).Inc()
	m.SearchDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}
