package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "penguin_explorer"

// Metrics holds the collectors of the dashboard on its own registry
type Metrics struct {
	Registry *prometheus.Registry

	loadDuration   prometheus.Histogram
	loadFailures   prometheus.Counter
	datasetRecords prometheus.Gauge
	imputedMass    prometheus.Gauge
	renders        *prometheus.CounterVec
	viewRecords    prometheus.Histogram
	exports        *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_seconds",
			Help:      "Time spent reading and cleaning the dataset file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_load_failures_total",
			Help:      "Dataset loads that ended in an error.",
		}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the loaded dataset.",
		}),
		imputedMass: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_imputed_body_mass",
			Help:      "Body mass values filled with the median during cleaning.",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Dashboard renders by species and outcome.",
		}, []string{"species", "outcome"}),
		viewRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_records",
			Help:      "Records in each filtered view.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200, 400},
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Filtered view downloads by format.",
		}, []string{"format"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loadDuration,
		m.loadFailures,
		m.datasetRecords,
		m.imputedMass,
		m.renders,
		m.viewRecords,
		m.exports,
	)
	return m
}

// ObserveLoad records one read of the dataset file
func (m *Metrics) ObserveLoad(duration time.Duration, records, imputed int, err error) {
	m.loadDuration.Observe(duration.Seconds())
	if err != nil {
		m.loadFailures.Inc()
		return
	}
	m.datasetRecords.Set(float64(records))
	m.imputedMass.Set(float64(imputed))
}

// ObserveRender records one dashboard render
func (m *Metrics) ObserveRender(species string, records int, err error) {
	if err != nil {
		m.renders.WithLabelValues(species, "error").Inc()
		return
	}
	m.renders.WithLabelValues(species, "ok").Inc()
	m.viewRecords.Observe(float64(records))
}

// ObserveExport records one download
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}
