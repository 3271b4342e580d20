// Package metrics provides Prometheus metrics for the feeshock pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the pipeline and the read API emit.
type Manager struct {
	namespace    string
	subsystem    string
	stageBuckets []float64
	httpBuckets  []float64
	enabled      bool
	constLabels  map[string]string
	metricPrefix string
	registry     prometheus.Registerer

	// Pipeline
	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	stageDuration   *prometheus.HistogramVec
	lastRunUnix     prometheus.Gauge
	recordsLoaded   *prometheus.CounterVec
	recordsSkipped  *prometheus.CounterVec
	filesRead       *prometheus.CounterVec
	employers       prometheus.Gauge
	yearsCovered    prometheus.Gauge
	sectors         prometheus.Gauge
	baselineApps    prometheus.Gauge
	projectedApps   prometheus.Gauge
	projectedChange prometheus.Gauge
	outputsWritten  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	simulations         prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "feeshock",
		subsystem:    "pipeline",
		stageBuckets: defaultStageBuckets,
		httpBuckets:  defaultHTTPBuckets,
		enabled:      true,
		constLabels:  make(map[string]string),
		registry:     prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.runsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("runs_total"),
		Help:        "Pipeline runs by outcome",
		ConstLabels: labels,
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("run_duration_milliseconds"),
		Help:        "End-to-end pipeline run duration in milliseconds",
		Buckets:     []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		ConstLabels: labels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("stage_duration_milliseconds"),
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.stageBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_success_unix"),
		Help:        "Unix time of the last successful run",
		ConstLabels: labels,
	})

	m.recordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records_loaded_total"),
		Help:        "Rows read from input files by source",
		ConstLabels: labels,
	}, []string{"source"})

	m.recordsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records_skipped_total"),
		Help:        "Rows dropped because the employer name could not be normalized",
		ConstLabels: labels,
	}, []string{"source"})

	m.filesRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("files_read_total"),
		Help:        "Input files read by source",
		ConstLabels: labels,
	}, []string{"source"})

	m.employers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("employers"),
		Help:        "Employer profiles produced by the last run",
		ConstLabels: labels,
	})

	m.yearsCovered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("years_covered"),
		Help:        "Rows in the last year summary",
		ConstLabels: labels,
	})

	m.sectors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sectors"),
		Help:        "Rows in the last sector summary",
		ConstLabels: labels,
	})

	m.baselineApps = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("baseline_applications"),
		Help:        "Baseline applications summed over all covered years",
		ConstLabels: labels,
	})

	m.projectedApps = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("projected_applications"),
		Help:        "Projected applications at the target fee summed over all covered years",
		ConstLabels: labels,
	})

	m.projectedChange = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("projected_change_percent"),
		Help:        "Projected percentage change in applications at the target fee",
		ConstLabels: labels,
	})

	m.outputsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("outputs_written_total"),
		Help:        "Output files written by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "api",
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "api",
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.httpBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.simulations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "api",
		Name:        m.name("simulations_total"),
		Help:        "On-demand fee simulations served",
		ConstLabels: labels,
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_component_total"),
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "api",
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "HTTP errors by endpoint, method and type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordRun counts a finished run with its outcome ("success" or "failure").
func RecordRun(status string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.runsTotal.WithLabelValues(status).Inc()
	globalManager.runDuration.Observe(durationMs)
	if status == "success" {
		globalManager.lastRunUnix.SetToCurrentTime()
	}
}

// RecordStage observes the duration of one pipeline stage.
func RecordStage(stage string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.stageDuration.WithLabelValues(stage).Observe(durationMs)
}

// RecordFileRead counts an input file read for source.
func RecordFileRead(source string) {
	if !globalManager.enabled {
		return
	}
	globalManager.filesRead.WithLabelValues(source).Inc()
}

// RecordRecordsLoaded adds n loaded rows for source.
func RecordRecordsLoaded(source string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.recordsLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordRecordsSkipped adds n skipped rows for source.
func RecordRecordsSkipped(source string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.recordsSkipped.WithLabelValues(source).Add(float64(n))
}

// RecordOutputWritten counts a written output file of the given kind.
func RecordOutputWritten(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.outputsWritten.WithLabelValues(kind).Inc()
}

// UpdateRunTotals publishes the headline numbers of the last successful run.
func UpdateRunTotals(employers, years, sectors int, baseline, projected, changePct float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.employers.Set(float64(employers))
	globalManager.yearsCovered.Set(float64(years))
	globalManager.sectors.Set(float64(sectors))
	globalManager.baselineApps.Set(baseline)
	globalManager.projectedApps.Set(projected)
	globalManager.projectedChange.Set(changePct)
}

// RecordSimulation counts an on-demand simulation request.
func RecordSimulation() {
	if !globalManager.enabled {
		return
	}
	globalManager.simulations.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// SetEnabled toggles recording for the pipeline collectors.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
