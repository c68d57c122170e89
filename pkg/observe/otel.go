package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routekit/pkg/routes"
)

// Default instrumentation scope name.
const defaultScopeName = "routekit"

// OTelConfig configures the OpenTelemetry observers.
type OTelConfig struct {
	// ScopeName is the instrumentation scope name (default: "routekit").
	ScopeName string

	// MeterProvider supplies the meter (default: otel.GetMeterProvider()).
	MeterProvider metric.MeterProvider
}

// OTelOption configures the OpenTelemetry observers.
type OTelOption func(*OTelConfig)

// WithScopeName sets the instrumentation scope name.
func WithScopeName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.ScopeName = name
	}
}

// WithMeterProvider sets the meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *OTelConfig) {
		c.MeterProvider = mp
	}
}

// Counters is a routes.Observer backed by OpenTelemetry counters:
// routekit.renders and routekit.failures.
type Counters struct {
	renders  metric.Int64Counter
	failures metric.Int64Counter
}

// OTel creates the counters on the configured meter.
func OTel(opts ...OTelOption) (*Counters, error) {
	config := OTelConfig{ScopeName: defaultScopeName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.MeterProvider == nil {
		config.MeterProvider = otel.GetMeterProvider()
	}

	meter := config.MeterProvider.Meter(config.ScopeName)

	renders, err := meter.Int64Counter("routekit.renders",
		metric.WithDescription("URLs rendered, by route pattern"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("routekit.failures",
		metric.WithDescription("Failed route operations, by operation and error kind"))
	if err != nil {
		return nil, err
	}

	return &Counters{renders: renders, failures: failures}, nil
}

// Rendered implements routes.Observer.
func (c *Counters) Rendered(pattern string) {
	c.renders.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("route.pattern", pattern)))
}

// Failed implements routes.Observer.
func (c *Counters) Failed(op string, err error) {
	c.failures.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("route.op", op),
			attribute.String("error.kind", routes.Kind(err)),
		))
}

// SpanEvents records renders and failures as events on the span carried by
// ctx. Scope a shared table to the request with Table.Observed. Without a
// recording span in ctx it does nothing.
//
//	links := table.Observed(observe.Span(r.Context()))
type SpanEvents struct {
	span trace.Span
}

// Span returns a SpanEvents observer for the span in ctx.
func Span(ctx context.Context) SpanEvents {
	return SpanEvents{span: trace.SpanFromContext(ctx)}
}

// Rendered implements routes.Observer.
func (s SpanEvents) Rendered(pattern string) {
	if !s.span.IsRecording() {
		return
	}
	s.span.AddEvent("route.rendered",
		trace.WithAttributes(attribute.String("route.pattern", pattern)))
}

// Failed implements routes.Observer.
func (s SpanEvents) Failed(op string, err error) {
	if !s.span.IsRecording() {
		return
	}
	s.span.RecordError(err, trace.WithAttributes(
		attribute.String("route.op", op),
		attribute.String("error.kind", routes.Kind(err)),
	))
}

var (
	_ routes.Observer = (*Counters)(nil)
	_ routes.Observer = SpanEvents{}
)
