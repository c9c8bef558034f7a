package keys_builder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks extraction runs.
//
// Metrics:
//   - ngkeys_files_processed_total: template sources read, by outcome
//   - ngkeys_template_parse_errors_total: template parse errors
//   - ngkeys_build_duration_seconds: duration of whole runs
//   - ngkeys_keys: distinct keys found by the last run
type Metrics struct {
	filesProcessed   *prometheus.CounterVec
	parseErrorsTotal prometheus.Counter
	buildDuration    prometheus.Histogram
	keys             prometheus.Gauge
}

// NewMetrics creates and registers the builder metrics with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		filesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ngkeys",
				Name:      "files_processed_total",
				Help:      "Total number of template sources processed",
			},
			[]string{"status"},
		),
		parseErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ngkeys",
				Name:      "template_parse_errors_total",
				Help:      "Total number of template parse errors",
			},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ngkeys",
				Name:      "build_duration_seconds",
				Help:      "Duration of extraction runs",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		keys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ngkeys",
				Name:      "keys",
				Help:      "Number of distinct keys found by the last run",
			},
		),
	}

	registerer.MustRegister(
		m.filesProcessed,
		m.parseErrorsTotal,
		m.buildDuration,
		m.keys,
	)
	return m
}

func (m *Metrics) recordFile(failed bool, parseErrors int) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.filesProcessed.WithLabelValues(status).Inc()
	m.parseErrorsTotal.Add(float64(parseErrors))
}

func (m *Metrics) recordRun(seconds float64, keys int) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(seconds)
	m.keys.Set(float64(keys))
}
