// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	turnCounter    otelmetric.Int64Counter
	stageDuration  otelmetric.Float64Histogram
	tracer         trace.Tracer
	tracerShutdown func(context.Context) error
}

// New wires the otel MeterProvider to the Prometheus exporter and, when
// jaegerEndpoint is set, a TracerProvider exporting to Jaeger.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{}
	o.tracer, o.tracerShutdown = newTracer(serviceName, jaegerEndpoint)

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	turnCounter, _ := meter.Int64Counter(
		"chat.turns.processed",
		otelmetric.WithDescription("Number of conversation turns processed"),
	)

	stageDuration, _ := meter.Float64Histogram(
		"chat.stage.duration",
		otelmetric.WithDescription("Duration of one conversation turn stage"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.turnCounter = turnCounter
	o.stageDuration = stageDuration
	return o
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{tracer: otel.Tracer("noop")}
}

func (o *Observability) RecordTurn(ctx context.Context, intent string) {
	if o.turnCounter != nil {
		o.turnCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("intent", intent),
		))
	}
}

func (o *Observability) RecordStageDuration(ctx context.Context, stage string, duration time.Duration) {
	if o.stageDuration != nil {
		o.stageDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("stage", stage),
		))
	}
}

// StartSpan starts a span named name under ctx.
func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if o.tracer == nil {
		return otel.Tracer("noop").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name)
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerShutdown != nil {
		_ = o.tracerShutdown(ctx)
	}
}
