package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vpbrowse/pkg/router"
)

// Default tracer name.
const defaultTracerName = "vpbrowse"

// TracingConfig configures the OpenTelemetry observers and middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "vpbrowse").
	TracerName string

	// TracerProvider provides the tracer.
	// Default: otel.GetTracerProvider()
	TracerProvider trace.TracerProvider

	// Filter determines which dispatches to trace. Return false to skip.
	// If nil, all dispatches are traced.
	Filter func(d *router.Dispatch) bool

	// AttributeExtractor adds custom attributes to dispatch spans.
	AttributeExtractor func(d *router.Dispatch) []attribute.KeyValue
}

// TracingOption configures tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.TracerProvider = tp
	}
}

// WithDispatchFilter sets a filter for dispatches.
func WithDispatchFilter(filter func(d *router.Dispatch) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(d *router.Dispatch) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

func newTracingConfig(opts []TracingOption) (TracingConfig, trace.Tracer) {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return config, tp.Tracer(config.TracerName)
}

// Tracing records a span per router dispatch. It implements
// router.Observer.
type Tracing struct {
	config TracingConfig
	tracer trace.Tracer
}

var _ router.Observer = (*Tracing)(nil)

// NavigationTracing returns an observer opening a span named
// "navigate <route>" for every dispatch. The handler's context carries
// the span.
func NavigationTracing(opts ...TracingOption) *Tracing {
	config, tracer := newTracingConfig(opts)
	return &Tracing{config: config, tracer: tracer}
}

// DispatchStarted implements router.Observer.
func (t *Tracing) DispatchStarted(ctx context.Context, d *router.Dispatch) context.Context {
	if t.config.Filter != nil && !t.config.Filter(d) {
		return ctx
	}

	attrs := []attribute.KeyValue{
		attribute.String("vpbrowse.path", d.Path),
		attribute.String("vpbrowse.full_path", d.FullPath),
		attribute.String("vpbrowse.trigger", string(d.Trigger)),
		attribute.Int64("vpbrowse.seq", int64(d.Seq)),
	}
	if d.Route != "" {
		attrs = append(attrs, attribute.String("vpbrowse.route", d.Route))
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(d)...)
	}

	ctx, _ = t.tracer.Start(ctx, spanName(d),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return context.WithValue(ctx, dispatchSpanKey{}, d)
}

// DispatchFinished implements router.Observer.
func (t *Tracing) DispatchFinished(ctx context.Context, d *router.Dispatch) {
	if ctx.Value(dispatchSpanKey{}) != d {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int64("vpbrowse.handler_duration_ms", d.Duration.Milliseconds()))
	if d.Err != nil {
		span.RecordError(d.Err)
		span.SetStatus(codes.Error, d.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// dispatchSpanKey marks a context whose span was opened for a dispatch.
type dispatchSpanKey struct{}

func spanName(d *router.Dispatch) string {
	if d.Route == "" {
		return "navigate unroutable"
	}
	return "navigate " + d.Route
}

// HTTPTracing returns net/http middleware opening a server span per
// request. The span is named after chi's route pattern once routing is
// done; the request context carries it.
func HTTPTracing(opts ...TracingOption) func(http.Handler) http.Handler {
	_, tracer := newTracingConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "http "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			if id := chimw.GetReqID(r.Context()); id != "" {
				span.SetAttributes(attribute.String("http.request_id", id))
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			span.SetName("http " + r.Method + " " + route)
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			)
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		})
	}
}

// SpanFromDispatch returns the span opened for the dispatch whose
// handler received ctx, or nil.
func SpanFromDispatch(ctx context.Context) trace.Span {
	if _, ok := ctx.Value(dispatchSpanKey{}).(*router.Dispatch); !ok {
		return nil
	}
	return trace.SpanFromContext(ctx)
}
