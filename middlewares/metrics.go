package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/pagon/internal"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Registry receives the collectors. Defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// ConstLabels are attached to every series.
	ConstLabels prometheus.Labels

	Namespace string
	Subsystem string
	Buckets   []float64
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metric namespace. Defaults to "pagon".
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metric subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsConstLabels sets labels attached to every series.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the duration histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the registerer the collectors are added to.
// Each call of Metrics registers new collectors, so applications with
// several Metrics middlewares need one registry each.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

type dispatchMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

func newDispatchMetrics(cfg MetricsConfig) *dispatchMetrics {
	factory := promauto.With(cfg.Registry)

	return &dispatchMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of dispatched requests",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method", "route", "status", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Dispatch duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"method", "route"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of requests whose handlers returned an error",
			ConstLabels: cfg.ConstLabels,
		}, []string{"method", "route"}),
	}
}

// Metrics returns middleware recording request counts, durations and
// handler errors. Series are labelled with the matched route pattern,
// never the raw path, to keep cardinality bounded. Requests nothing
// handled are labelled with route "unmatched", status 404 and outcome
// "unmatched".
func Metrics(opts ...MetricsOption) internal.HandlerFunc {
	cfg := MetricsConfig{
		Namespace: "pagon",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := newDispatchMetrics(cfg)

	return func(c internal.Context, next internal.Next) error {
		start := time.Now()
		err := next()

		route := "unmatched"
		if r := c.Route(); r != nil {
			route = r.Pattern()
		}
		method := c.Method()

		status := strconv.Itoa(c.ResponseWriter().Status())
		outcome := "handled"
		switch {
		case err == nil && !c.Written() && internal.Exhausted(c):
			// the not-found response is written after the stack unwinds
			status = strconv.Itoa(http.StatusNotFound)
			outcome = "unmatched"
		case internal.IsPass(err):
			outcome = "pass"
		case internal.IsStop(err):
			outcome = "stop"
		case err != nil:
			outcome = "error"
			m.errors.WithLabelValues(method, route).Inc()
		}

		m.requests.WithLabelValues(method, route, status, outcome).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}
