package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	// Fetch metrics.
	Downloads        *prometheus.CounterVec // labels: outcome={fetched,cached,error}
	DownloadDuration prometheus.Histogram
	CatalogSize      prometheus.Gauge

	// Normalization metrics.
	RecordsNormalized prometheus.Counter
	NormalizeErrors   prometheus.Counter
	NormalizeDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gdp_ingest",
			Name:      "downloads_total",
			Help:      "Per-drifter fetch attempts by outcome (fetched, cached, error).",
		}, []string{"outcome"}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gdp_ingest",
			Name:      "download_duration_seconds",
			Help:      "Duration of one drifter file download, cache misses only.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gdp_ingest",
			Name:      "catalog_size",
			Help:      "Drifters known to the remote catalog.",
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdp_ingest",
			Name:      "records_normalized_total",
			Help:      "Trajectory records normalized successfully.",
		}),
		NormalizeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdp_ingest",
			Name:      "normalize_errors_total",
			Help:      "Normalization failures.",
		}),
		NormalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gdp_ingest",
			Name:      "normalize_duration_seconds",
			Help:      "Duration of one record normalization.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.Downloads,
		m.DownloadDuration,
		m.CatalogSize,
		m.RecordsNormalized,
		m.NormalizeErrors,
		m.NormalizeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Downloads:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gdp_ingest", Name: "downloads_total"}, []string{"outcome"}),
		DownloadDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gdp_ingest", Name: "download_duration_seconds"}),
		CatalogSize:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gdp_ingest", Name: "catalog_size"}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gdp_ingest", Name: "records_normalized_total"}),
		NormalizeErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gdp_ingest", Name: "normalize_errors_total"}),
		NormalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gdp_ingest", Name: "normalize_duration_seconds"}),
	}
}
