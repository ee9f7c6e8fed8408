package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tmy_report"

// Metrics holds the Prometheus collectors for report generation.
type Metrics struct {
	Generations        *prometheus.CounterVec // labels: outcome={success,error,busy}
	GenerationDuration prometheus.Histogram
	FetchDuration      *prometheus.HistogramVec // labels: source={tmy3,psm3}
	FetchErrors        *prometheus.CounterVec   // labels: source
	RowsLoaded         *prometheus.GaugeVec     // labels: site
	LastSuccess        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Report generations by outcome.",
		}, []string{"outcome"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of a complete fetch, analyze, render and store cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent loading a dataset.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed dataset loads by source.",
		}, []string{"source"}),
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_loaded",
			Help:      "Rows in the most recently loaded dataset per site.",
		}, []string{"site"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful report.",
		}),
	}

	reg.MustRegister(
		m.Generations,
		m.GenerationDuration,
		m.FetchDuration,
		m.FetchErrors,
		m.RowsLoaded,
		m.LastSuccess,
	)

	return m
}

// NewMetricsForTesting registers with a fresh registry so tests can create many instances.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
