// Package metrics exposes container resolution activity as Prometheus
// metrics.
//
// Example:
//
//	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	resolver := inject.NewResolver(inject.WithHooks(collector.Hooks()))
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/junioryono/inject"
)

// Collector records resolutions, failures and instantiations per key.
type Collector struct {
	resolutions    *prometheus.CounterVec
	errors         *prometheus.CounterVec
	instantiations *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace prefixes every metric name. The default is "inject".
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithBuckets sets the instantiation duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg skips registration.
func NewCollector(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	o := options{
		namespace: "inject",
		buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collector{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "resolutions_total",
				Help:      "Total number of successful top-level resolutions",
			},
			[]string{"key"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "resolution_errors_total",
				Help:      "Total number of failed top-level resolutions",
			},
			[]string{"key", "reason"},
		),
		instantiations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "instantiations_total",
				Help:      "Total number of provider instantiations across containers",
			},
			[]string{"key"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: o.namespace,
				Name:      "instantiation_duration_seconds",
				Help:      "Time spent running provider factories",
				Buckets:   o.buckets,
			},
			[]string{"key"},
		),
	}

	if reg != nil {
		for _, m := range c.collectors() {
			if err := reg.Register(m); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.resolutions, c.errors, c.instantiations, c.duration}
}

// Hooks returns resolver hooks that feed the collector.
func (c *Collector) Hooks() inject.Hooks {
	return inject.Hooks{
		OnResolved: func(key *inject.Key, _ any, _ time.Duration) {
			c.resolutions.WithLabelValues(key.DisplayName()).Inc()
		},
		OnError: func(key *inject.Key, err error) {
			c.errors.WithLabelValues(key.DisplayName(), Reason(err)).Inc()
		},
		OnInstantiated: func(key *inject.Key, d time.Duration) {
			name := key.DisplayName()
			c.instantiations.WithLabelValues(name).Inc()
			c.duration.WithLabelValues(name).Observe(d.Seconds())
		},
	}
}

// Reason classifies a resolution error for the "reason" label.
func Reason(err error) string {
	switch {
	case errors.Is(err, inject.ErrNoProvider):
		return "no_provider"
	case errors.Is(err, inject.ErrCircularDependency):
		return "circular_dependency"
	case errors.Is(err, inject.ErrConstructorPanic):
		return "panic"
	case errors.Is(err, inject.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, inject.ErrInvalidToken):
		return "invalid_token"
	default:
		return "factory_error"
	}
}
