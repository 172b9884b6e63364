// Package prometheus exposes pipeline metrics through a custom registry.
// Callers register counters, gauges, and histograms by short name; the
// collector prefixes them with the configured namespace and serves them
// over the standard /metrics text format.
package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// MetricsCollector registers metrics and serves the scrape endpoint.
// Registration never fails from the caller's point of view: on a registry
// error the collector logs and hands back a no-op metric so recording code
// stays unconditional.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	MustRegister(collectors ...prometheus.Collector)
	Unregister(collector prometheus.Collector) bool
}

// CounterVec is a labeled family of counters.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter is a monotonically increasing value.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec is a labeled family of gauges.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge is a value that can go up and down.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
	Sub(delta float64)
}

// HistogramVec is a labeled family of histograms.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram samples observations into configured buckets.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds settings for the metrics registry.
type CollectorConfig struct {
	// Namespace prefixes every metric name and is required.
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
	// Subsystem optionally sits between the namespace and the metric name.
	Subsystem string `mapstructure:"subsystem" yaml:"subsystem" json:"subsystem"`
	// EnableProcessMetrics adds the standard process_* collectors.
	EnableProcessMetrics bool `mapstructure:"enable_process_metrics" yaml:"enable_process_metrics" json:"enable_process_metrics"`
	// EnableGoMetrics adds the standard go_* runtime collectors.
	EnableGoMetrics bool `mapstructure:"enable_go_metrics" yaml:"enable_go_metrics" json:"enable_go_metrics"`
	// DefaultHistogramBuckets applies to histograms registered without
	// explicit buckets. Defaults to prometheus.DefBuckets.
	DefaultHistogramBuckets []float64 `mapstructure:"default_histogram_buckets" yaml:"default_histogram_buckets" json:"default_histogram_buckets"`
	// ConstLabels are attached to every metric from this collector.
	ConstLabels map[string]string `mapstructure:"const_labels" yaml:"const_labels" json:"const_labels"`
}

type promCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector builds a MetricsCollector backed by its own registry,
// so tests and embedded use never collide with the global default registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.InvalidParam("metrics namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.DefaultHistogramBuckets == nil {
		cfg.DefaultHistogramBuckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}

	return &promCollector{
		registry:   registry,
		config:     cfg,
		logger:     logger.Named("metrics"),
		registered: make(map[string]prometheus.Collector),
	}, nil
}

func (c *promCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (c *promCollector) MustRegister(collectors ...prometheus.Collector) {
	c.registry.MustRegister(collectors...)
}

func (c *promCollector) Unregister(collector prometheus.Collector) bool {
	return c.registry.Unregister(collector)
}

// register returns the collector already held under the metric's full name,
// so repeated registrations of the same name share one vector.
func (c *promCollector) register(name string, collector prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fqName := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.registered[fqName]; ok {
		return existing, nil
	}
	if err := c.registry.Register(collector); err != nil {
		return nil, err
	}
	c.registered[fqName] = collector
	return collector, nil
}

func (c *promCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)

	registered, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("Counter registration failed", logging.String("name", name), logging.Err(err))
		return noopCounterVec{}
	}
	existing, ok := registered.(*prometheus.CounterVec)
	if !ok {
		c.logger.Error("Metric name already taken by another type",
			logging.String("name", name), logging.String("wanted", "counter"))
		return noopCounterVec{}
	}
	return &promCounterVec{vec: existing}
}

func (c *promCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)

	registered, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("Gauge registration failed", logging.String("name", name), logging.Err(err))
		return noopGaugeVec{}
	}
	existing, ok := registered.(*prometheus.GaugeVec)
	if !ok {
		c.logger.Error("Metric name already taken by another type",
			logging.String("name", name), logging.String("wanted", "gauge"))
		return noopGaugeVec{}
	}
	return &promGaugeVec{vec: existing}
}

func (c *promCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = c.config.DefaultHistogramBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
		Buckets:     buckets,
	}, labels)

	registered, err := c.register(name, vec)
	if err != nil {
		c.logger.Error("Histogram registration failed", logging.String("name", name), logging.Err(err))
		return noopHistogramVec{}
	}
	existing, ok := registered.(*prometheus.HistogramVec)
	if !ok {
		c.logger.Error("Metric name already taken by another type",
			logging.String("name", name), logging.String("wanted", "histogram"))
		return noopHistogramVec{}
	}
	return &promHistogramVec{vec: existing}
}

type promCounterVec struct{ vec *prometheus.CounterVec }

func (v *promCounterVec) WithLabelValues(lvs ...string) Counter {
	return v.vec.WithLabelValues(lvs...)
}

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (v *promGaugeVec) WithLabelValues(lvs ...string) Gauge {
	return v.vec.WithLabelValues(lvs...)
}

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (v *promHistogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.vec.WithLabelValues(lvs...)
}

type noopCounterVec struct{}

func (noopCounterVec) WithLabelValues(lvs ...string) Counter { return noopMetric{} }

type noopGaugeVec struct{}

func (noopGaugeVec) WithLabelValues(lvs ...string) Gauge { return noopMetric{} }

type noopHistogramVec struct{}

func (noopHistogramVec) WithLabelValues(lvs ...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()                  {}
func (noopMetric) Dec()                  {}
func (noopMetric) Add(delta float64)     {}
func (noopMetric) Sub(delta float64)     {}
func (noopMetric) Set(value float64)     {}
func (noopMetric) Observe(value float64) {}

// Timer measures the time between its creation and ObserveDuration.
type Timer struct {
	histogram Histogram
	start     time.Time
}

// NewTimer starts a timer that records into histogram.
func NewTimer(histogram Histogram) *Timer {
	return &Timer{histogram: histogram, start: time.Now()}
}

// ObserveDuration records the elapsed seconds. A nil histogram is ignored.
func (t *Timer) ObserveDuration() time.Duration {
	elapsed := time.Since(t.start)
	if t.histogram != nil {
		t.histogram.Observe(elapsed.Seconds())
	}
	return elapsed
}
