// Package metrics exports reconcile and component measurements to
// Prometheus.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg))
//	engine := reconcile.NewEngine(reconcile.WithObserver(m))
//	inst := component.New(def, el, queue, component.WithRecorder(m))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/livetree/pkg/component"
	"github.com/vango-dev/livetree/pkg/reconcile"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "livetree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass and render durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "livetree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records passes, host mutations, component renders and
// devtools stream clients.
type Collector struct {
	passesTotal    prometheus.Counter
	passDuration   prometheus.Histogram
	mutationsTotal *prometheus.CounterVec
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	updateRequests *prometheus.CounterVec
	streamClients  prometheus.Gauge
}

var (
	_ reconcile.Observer = (*Collector)(nil)
	_ component.Recorder = (*Collector)(nil)
)

// New registers the collector's metrics and returns it. Registering twice
// on the same registry panics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		passesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of reconcile passes",
			ConstLabels: config.ConstLabels,
		}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconcile pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_mutations_total",
			Help:        "Total number of host tree operations issued by the reconciler",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_renders_total",
			Help:        "Total number of component render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_render_duration_seconds",
			Help:        "Component render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		updateRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_update_requests_total",
			Help:        "Total number of component update requests",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "result"}),

		streamClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "devtools_stream_clients",
			Help:        "Number of connected devtools mutation stream clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObservePass implements reconcile.Observer.
func (c *Collector) ObservePass(_ reconcile.PassID, d time.Duration) {
	c.passesTotal.Inc()
	c.passDuration.Observe(d.Seconds())
}

// ObserveMutation implements reconcile.Observer.
func (c *Collector) ObserveMutation(op reconcile.Op) {
	c.mutationsTotal.WithLabelValues(op.String()).Inc()
}

// RenderCompleted implements component.Recorder.
func (c *Collector) RenderCompleted(name string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.rendersTotal.WithLabelValues(name, status).Inc()
	c.renderDuration.WithLabelValues(name).Observe(d.Seconds())
}

// UpdateRequested implements component.Recorder.
func (c *Collector) UpdateRequested(name string, scheduled bool) {
	result := "merged"
	if scheduled {
		result = "scheduled"
	}
	c.updateRequests.WithLabelValues(name, result).Inc()
}

// ClientConnected increments the devtools stream client gauge.
func (c *Collector) ClientConnected() { c.streamClients.Inc() }

// ClientDisconnected decrements the devtools stream client gauge.
func (c *Collector) ClientDisconnected() { c.streamClients.Dec() }
