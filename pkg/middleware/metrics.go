package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/router"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vpbrowse").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "vpbrowse",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

func newMetricsConfig(opts []MetricsOption) MetricsConfig {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Navigation collects metrics about router dispatches. It implements
// router.Observer.
type Navigation struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	unroutable *prometheus.CounterVec
}

var _ router.Observer = (*Navigation)(nil)

// NavigationMetrics registers the navigation metrics and returns the
// observer feeding them.
//
// Metrics collected:
//   - vpbrowse_navigations_total: dispatches by route, trigger and status
//   - vpbrowse_navigation_duration_seconds: handler duration by route
//   - vpbrowse_unroutable_total: paths without a route, by trigger
//
// Registering twice with the same registry panics, as with promauto.
func NavigationMetrics(opts ...MetricsOption) *Navigation {
	config := newMetricsConfig(opts)
	factory := promauto.With(config.Registry)

	return &Navigation{
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of router dispatches",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "trigger", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Route handler duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		unroutable: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unroutable_total",
			Help:        "Total number of paths no route matched",
			ConstLabels: config.ConstLabels,
		}, []string{"trigger"}),
	}
}

// DispatchStarted implements router.Observer.
func (n *Navigation) DispatchStarted(ctx context.Context, _ *router.Dispatch) context.Context {
	return ctx
}

// DispatchFinished implements router.Observer.
func (n *Navigation) DispatchFinished(_ context.Context, d *router.Dispatch) {
	trigger := string(d.Trigger)
	if errors.Is(d.Err, router.ErrUnroutable) {
		n.unroutable.WithLabelValues(trigger).Inc()
		n.dispatches.WithLabelValues("", trigger, "unroutable").Inc()
		return
	}

	status := "success"
	if d.Err != nil {
		status = categorizeError(d.Err)
	}
	n.dispatches.WithLabelValues(d.Route, trigger, status).Inc()
	n.duration.WithLabelValues(d.Route).Observe(d.Duration.Seconds())
}

// categorizeError returns a low-cardinality label for err: the code of a
// coded error, "canceled", "timeout" or "internal".
func categorizeError(err error) string {
	var coded *vperrors.Error
	switch {
	case errors.As(err, &coded) && coded.Code != "":
		return coded.Code
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// httpMetrics holds the HTTP server metrics.
type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// HTTPMetrics returns net/http middleware recording request counts,
// durations and in-flight requests.
//
// Metrics collected:
//   - vpbrowse_http_requests_total: requests by method, route and status code
//   - vpbrowse_http_request_duration_seconds: duration by method and route
//   - vpbrowse_http_requests_in_flight: requests being served
func HTTPMetrics(opts ...MetricsOption) func(http.Handler) http.Handler {
	config := newMetricsConfig(opts)
	factory := promauto.With(config.Registry)

	m := &httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "code"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests being served",
			ConstLabels: config.ConstLabels,
		}),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern returns chi's matched route pattern, or "unmatched".
// Raw URL paths are never used as labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
