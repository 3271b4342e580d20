package metrics

import (
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Default latency buckets in milliseconds. Stages read and write small files,
// HTTP handlers only read the in-memory snapshot.
var (
	defaultStageBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // defaults
	defaultHTTPBuckets  = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}         //nolint:gochecknoglobals // defaults
)

// Option configures a Manager before its collectors are registered.
type Option func(*Manager)

// WithNamespace sets the first segment of every metric name.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if ns := strings.TrimSpace(namespace); ns != "" {
			m.namespace = ns
		}
	}
}

// WithSubsystem sets the segment used by pipeline metrics. API metrics always
// use the "api" subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if sub := strings.TrimSpace(subsystem); sub != "" {
			m.subsystem = sub
		}
	}
}

// WithMetricPrefix prepends prefix to the final name segment.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if p := strings.TrimSpace(prefix); p != "" {
			m.metricPrefix = p
		}
	}
}

// WithStageBuckets overrides the stage duration buckets (milliseconds).
func WithStageBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.stageBuckets = sortedCopy(buckets)
		}
	}
}

// WithHTTPBuckets overrides the HTTP request duration buckets (milliseconds).
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.httpBuckets = sortedCopy(buckets)
		}
	}
}

// WithMetricsEnabled turns recording on or off.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithConstLabels attaches constant labels, e.g. the deployment environment,
// to every collector.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithRegisterer registers the collectors on reg instead of the default
// registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

func sortedCopy(in []float64) []float64 {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
