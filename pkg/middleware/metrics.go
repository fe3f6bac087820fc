package middleware

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hashnav").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

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

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
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
		Namespace: "hashnav",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records navigator, bridge, and link-store activity. It implements
// hashroute.Observer.
type Metrics struct {
	reads         prometheus.Counter
	writes        prometheus.Counter
	opDuration    *prometheus.HistogramVec
	fragmentBytes prometheus.Histogram
	dropped       prometheus.Counter
	fallbacks     prometheus.Counter
	duplicates    prometheus.Counter

	sessions       prometheus.Gauge
	bridgeMessages *prometheus.CounterVec
	bridgeErrors   *prometheus.CounterVec

	linkOps    *prometheus.CounterVec
	linkErrors *prometheus.CounterVec
}

// Prometheus registers the hashnav metrics and returns the observer that
// feeds them. Registering twice on the same registry panics, as with any
// promauto collector.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Metrics{
		reads:  counter("reads_total", "Total number of fragment reads"),
		writes: counter("writes_total", "Total number of fragment writes"),
		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_duration_seconds",
			Help:        "Fragment read and write duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),
		fragmentBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fragment_bytes",
			Help:        "Size of read and written fragments in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{16, 64, 256, 1024, 4096, 16384},
		}),
		dropped:    counter("dropped_segments_total", "Variable segments discarded for lacking '='"),
		fallbacks:  counter("decode_fallbacks_total", "Fields kept literal because of malformed percent-escapes"),
		duplicates: counter("duplicate_keys_total", "Variable segments repeating an earlier key"),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bridge_sessions",
			Help:        "Number of connected bridge sessions",
			ConstLabels: config.ConstLabels,
		}),
		bridgeMessages: counterVec("bridge_messages_total", "Bridge messages by direction", "direction"),
		bridgeErrors:   counterVec("bridge_errors_total", "Bridge errors by type", "type"),

		linkOps:    counterVec("link_ops_total", "Link store operations by result", "op", "status"),
		linkErrors: counterVec("link_errors_total", "Link store errors by type", "op", "error_type"),
	}
}

// Observe implements hashroute.Observer.
func (m *Metrics) Observe(ev hashroute.Event) {
	switch ev.Op {
	case hashroute.OpRead:
		m.reads.Inc()
		m.dropped.Add(float64(ev.Report.Dropped))
		m.fallbacks.Add(float64(ev.Report.DecodeFallbacks))
		m.duplicates.Add(float64(ev.Report.Duplicates))
	case hashroute.OpWrite:
		m.writes.Inc()
	}
	m.opDuration.WithLabelValues(string(ev.Op)).Observe(ev.Duration.Seconds())
	m.fragmentBytes.Observe(float64(len(ev.Fragment)))
}

// SessionOpened records a bridge session connecting.
func (m *Metrics) SessionOpened() {
	m.sessions.Inc()
}

// SessionClosed records a bridge session going away.
func (m *Metrics) SessionClosed() {
	m.sessions.Dec()
}

// BridgeMessage records one message; direction is "in" or "out".
func (m *Metrics) BridgeMessage(direction string) {
	m.bridgeMessages.WithLabelValues(direction).Inc()
}

// BridgeError records a bridge failure of the given kind (read, write, decode, upgrade).
func (m *Metrics) BridgeError(kind string) {
	m.bridgeErrors.WithLabelValues(kind).Inc()
}

// LinkOp records a link store operation and, when err is non-nil, its
// error category.
func (m *Metrics) LinkOp(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
		m.linkErrors.WithLabelValues(op, categorizeError(err)).Inc()
	}
	m.linkOps.WithLabelValues(op, status).Inc()
}

// categorizeError keeps error labels low-cardinality.
func categorizeError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "not found"), strings.Contains(msg, "nosuchkey"):
		return "not_found"
	case strings.Contains(msg, "invalid"):
		return "validation"
	case strings.Contains(msg, "denied"), strings.Contains(msg, "forbidden"):
		return "forbidden"
	case strings.Contains(msg, "canceled"):
		return "canceled"
	default:
		return "internal"
	}
}
