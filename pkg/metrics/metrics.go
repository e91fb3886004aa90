// Package metrics instruments stores with Prometheus collectors.
//
// A Collector owns the metric families; Instrument wraps one store with
// write and notification accounting under a store-name label. The wrapper
// delegates everything to the underlying store, so semantics (identity
// suppression, synchronous fan-out, destroy) are unchanged.
//
// Metrics collected:
//   - <ns>_store_writes_total{store,status}: writes by outcome
//     (applied, suppressed, error)
//   - <ns>_store_notifications_total{store}: subscriber callbacks fanned out
//   - <ns>_store_write_duration_seconds{store}: write latency including fan-out
//   - <ns>_store_subscribers{store}: current subscriber count
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cellstore-dev/cellstore/pkg/cell"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "cellstore").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for write duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
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
		Namespace: "cellstore",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Write outcome label values.
const (
	statusApplied    = "applied"
	statusSuppressed = "suppressed"
	statusError      = "error"
)

// Collector holds the Prometheus metric families for instrumented stores.
// Collectors are created explicitly and passed to Instrument; there is no
// package-level singleton.
type Collector struct {
	writesTotal        *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	writeDuration      *prometheus.HistogramVec
	subscribers        *prometheus.GaugeVec
}

// NewCollector creates and registers the metric families.
func NewCollector(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_writes_total",
			Help:        "Total store writes by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "status"}),

		notificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_notifications_total",
			Help:        "Total subscriber callbacks fanned out",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		writeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_write_duration_seconds",
			Help:        "Store write duration including subscriber fan-out",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		subscribers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_subscribers",
			Help:        "Current subscriber count per store",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),
	}
}

// Instrumented wraps a store with metric accounting. All semantics are the
// underlying store's.
type Instrumented[T any] struct {
	name      string
	collector *Collector
	store     *cell.Store[T]
}

// Instrument wraps store under the given name label.
func Instrument[T any](c *Collector, name string, store *cell.Store[T]) *Instrumented[T] {
	c.subscribers.WithLabelValues(name).Set(float64(store.SubscriberCount()))
	return &Instrumented[T]{name: name, collector: c, store: store}
}

// Unwrap returns the underlying store, for callers (watchers, inspector
// registration) that need the concrete type.
func (m *Instrumented[T]) Unwrap() *cell.Store[T] {
	return m.store
}

// Get returns the current value.
func (m *Instrumented[T]) Get() T {
	return m.store.Get()
}

// Set replaces the current value, recording outcome and duration.
func (m *Instrumented[T]) Set(value T) {
	start := time.Now()
	before := m.store.Get()
	m.store.Set(value)
	m.finishWrite(start, before, nil)
}

// Update replaces the current value with fn(current), recording outcome
// and duration. A panicking updater propagates uncounted.
func (m *Instrumented[T]) Update(fn func(T) T) {
	start := time.Now()
	before := m.store.Get()
	m.store.Update(fn)
	m.finishWrite(start, before, nil)
}

// TryUpdate is Update with an explicit error path; errors count under the
// error status.
func (m *Instrumented[T]) TryUpdate(fn func(T) (T, error)) error {
	start := time.Now()
	before := m.store.Get()
	err := m.store.TryUpdate(fn)
	m.finishWrite(start, before, err)
	return err
}

// Subscribe delegates to the store and keeps the subscriber gauge current.
func (m *Instrumented[T]) Subscribe(fn func(T)) (cancel func()) {
	inner := m.store.Subscribe(fn)
	m.syncSubscribers()

	return func() {
		inner()
		m.syncSubscribers()
	}
}

// Destroy clears all subscribers and zeroes the gauge.
func (m *Instrumented[T]) Destroy() {
	m.store.Destroy()
	m.syncSubscribers()
}

// SubscriberCount returns the underlying store's subscriber count.
func (m *Instrumented[T]) SubscriberCount() int {
	return m.store.SubscriberCount()
}

func (m *Instrumented[T]) finishWrite(start time.Time, before T, err error) {
	status := statusApplied
	switch {
	case err != nil:
		status = statusError
	case cell.Identical(any(before), any(m.store.Get())):
		status = statusSuppressed
	default:
		// Fan-out has completed by the time the write returned, so the
		// notification count is exact.
		m.collector.notificationsTotal.WithLabelValues(m.name).
			Add(float64(m.store.SubscriberCount()))
	}

	m.collector.writesTotal.WithLabelValues(m.name, status).Inc()
	m.collector.writeDuration.WithLabelValues(m.name).
		Observe(time.Since(start).Seconds())
}

func (m *Instrumented[T]) syncSubscribers() {
	m.collector.subscribers.WithLabelValues(m.name).
		Set(float64(m.store.SubscriberCount()))
}
