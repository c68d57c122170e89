package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/routekit/pkg/routes"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routekit",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a routes.Observer backed by Prometheus counters.
type Metrics struct {
	renders  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// Prometheus registers the route metrics and returns an observer that
// updates them. Registering twice on the same registry panics, as with
// promauto; pass WithRegistry to isolate tables.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of URLs rendered, by route pattern",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed route operations, by operation and error kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "kind"}),
	}
}

// RendersVec returns the renders counter, labeled by pattern.
func (m *Metrics) RendersVec() *prometheus.CounterVec {
	return m.renders
}

// FailuresVec returns the failures counter, labeled by op and kind.
func (m *Metrics) FailuresVec() *prometheus.CounterVec {
	return m.failures
}

// Rendered implements routes.Observer.
func (m *Metrics) Rendered(pattern string) {
	m.renders.WithLabelValues(pattern).Inc()
}

// Failed implements routes.Observer.
func (m *Metrics) Failed(op string, err error) {
	m.failures.WithLabelValues(op, routes.Kind(err)).Inc()
}

var _ routes.Observer = (*Metrics)(nil)
