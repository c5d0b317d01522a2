package reactive

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the optional Prometheus instrumentation of the
// core. Instrumentation is off until EnableMetrics is called.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures EnableMetrics.
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

type coreMetrics struct {
	tracks     *prometheus.CounterVec
	triggers   *prometheus.CounterVec
	effectRuns prometheus.Counter
}

var (
	metricsMu sync.Mutex
	metrics   *coreMetrics
)

// EnableMetrics registers Prometheus counters for track operations, trigger
// operations, and effect runs. Calling it twice is a no-op.
func EnableMetrics(opts ...MetricsOption) {
	cfg := MetricsConfig{
		Namespace: "reactive",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	metricsMu.Lock()
	defer metricsMu.Unlock()
	if metrics != nil {
		return
	}

	factory := promauto.With(cfg.Registry)
	metrics = &coreMetrics{
		tracks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "tracks_total",
			Help:        "Dependency edges recorded, by operation.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op"}),
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "triggers_total",
			Help:        "Mutations that notified at least one dep, by operation.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op"}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Tracked effect executions.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func recordTrack(op TrackOp) {
	if m := metrics; m != nil {
		m.tracks.WithLabelValues(op.String()).Inc()
	}
}

func recordTrigger(op TriggerOp) {
	if m := metrics; m != nil {
		m.triggers.WithLabelValues(op.String()).Inc()
	}
}

func recordEffectRun() {
	if m := metrics; m != nil {
		m.effectRuns.Inc()
	}
}
