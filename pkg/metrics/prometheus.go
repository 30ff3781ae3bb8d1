package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration.
var defaultDelayBuckets = []float64{0, 1, 2, 5, 10, 20, 30, 60, 120}

// Manager owns the Prometheus collectors of an evaluation run.
//
// A batch evaluator has no scrape endpoint, so the registry is written to a
// node_exporter textfile instead (see WriteTextfile).
type Manager struct {
	namespace    string
	subsystem    string
	delayBuckets []float64
	enabled      bool
	constLabels  map[string]string
	registry     *prometheus.Registry

	samplesLoaded   *prometheus.CounterVec
	classifications *prometheus.CounterVec
	detectionDelay  prometheus.Histogram
	report          *prometheus.GaugeVec
	runDuration     prometheus.Gauge
	lastRun         prometheus.Gauge
	errors          *prometheus.CounterVec
}

// NewManager creates a metrics manager on a fresh registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "fds",
		subsystem:    "evaluation",
		delayBuckets: defaultDelayBuckets,
		enabled:      true,
		constLabels:  map[string]string{},
		registry:     prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.samplesLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "samples_loaded_total",
		Help:        "Sample files loaded, by source directory role",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.classifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "classifications_total",
		Help:        "Classified sample pairs by confusion-matrix cell",
		ConstLabels: m.constLabels,
	}, []string{"class"})

	m.detectionDelay = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "detection_delay_frames",
		Help:        "Frames between the true event and its detection, per true positive",
		Buckets:     m.delayBuckets,
		ConstLabels: m.constLabels,
	})

	m.report = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_value",
		Help:        "Derived report values; NaN when undefined",
		ConstLabels: m.constLabels,
	}, []string{"metric"})

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of the last evaluation run",
		ConstLabels: m.constLabels,
	})

	m.lastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last evaluation run finished",
		ConstLabels: m.constLabels,
	})

	m.errors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Evaluation failures by pipeline stage",
		ConstLabels: m.constLabels,
	}, []string{"stage"})
}

// RecordSamplesLoaded counts n samples read for source ("predicted" or "truth").
func (m *Manager) RecordSamplesLoaded(source string, n int) {
	if !m.enabled {
		return
	}
	m.samplesLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordClassifications counts n pairs in class.
func (m *Manager) RecordClassifications(class string, n int) {
	if !m.enabled {
		return
	}
	m.classifications.WithLabelValues(class).Add(float64(n))
}

// ObserveDelay records the delay of one true positive.
func (m *Manager) ObserveDelay(frames int) {
	if !m.enabled {
		return
	}
	m.detectionDelay.Observe(float64(frames))
}

// SetReportValue publishes a derived value. Undefined values are exported as NaN.
func (m *Manager) SetReportValue(metric string, value float64, defined bool) {
	if !m.enabled {
		return
	}
	if !defined {
		value = math.NaN()
	}
	m.report.WithLabelValues(metric).Set(value)
}

// RecordRun stores the duration and completion time of a run.
func (m *Manager) RecordRun(d time.Duration, finished time.Time) {
	if !m.enabled {
		return
	}
	m.runDuration.Set(d.Seconds())
	m.lastRun.Set(float64(finished.Unix()))
}

// RecordError counts a failure in stage.
func (m *Manager) RecordError(stage string) {
	if !m.enabled {
		return
	}
	m.errors.WithLabelValues(stage).Inc()
}

// WriteTextfile writes every collected metric in the text exposition format,
// atomically, for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
