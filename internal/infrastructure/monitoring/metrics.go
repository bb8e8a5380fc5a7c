package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wikisnp"

// Metrics holds all Prometheus metrics for a scrape run
type Metrics struct {
	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	FetchBytes    prometheus.Gauge

	// Parse metrics
	Components prometheus.Gauge
	Diffs      prometheus.Gauge

	// Run metrics
	RunsTotal     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	LastSuccess   prometheus.Gauge

	// Registry holds only the metrics above, so textfile output carries no
	// Go runtime or process collectors.
	Registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Page fetches by where the body came from",
			},
			[]string{"source"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Page fetch duration in seconds, cache hits included",
				Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		FetchBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fetch_bytes",
				Help:      "Size of the last fetched page body",
			},
		),

		Components: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "components",
				Help:      "Components parsed in the last successful scrape",
			},
		),
		Diffs: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "diffs",
				Help:      "Composition changes parsed in the last successful scrape",
			},
		),

		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Scrape runs by outcome",
			},
			[]string{"status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each scrape stage in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"stage", "status"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful scrape",
			},
		),
	}
}

// RecordFetch records one page fetch
func (m *Metrics) RecordFetch(source string, duration time.Duration, size int) {
	m.FetchesTotal.WithLabelValues(source).Inc()
	m.FetchDuration.Observe(duration.Seconds())
	m.FetchBytes.Set(float64(size))
}

// RecordParse records the size of a parsed index
func (m *Metrics) RecordParse(components, diffs int) {
	m.Components.Set(float64(components))
	m.Diffs.Set(float64(diffs))
}

// RecordRun records the outcome of a whole run
func (m *Metrics) RecordRun(err error, at time.Time) {
	if err != nil {
		m.RunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.RunsTotal.WithLabelValues("success").Inc()
	m.LastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics in the text exposition format for the
// node exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
