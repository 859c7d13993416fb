package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"qa-workers/internal/common/config"
)

const instrumentationName = "qa-workers/pipeline"

// Observability owns the tracer and meter providers of the process.
type Observability struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer

	questionCounter  otelmetric.Int64Counter
	questionDuration otelmetric.Float64Histogram
}

type options struct {
	registerer prometheus.Registerer
	global     bool
}

type Option func(*options)

// WithRegisterer sets the Prometheus registerer for OTel metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithoutGlobal keeps the providers out of the otel globals.
func WithoutGlobal() Option {
	return func(o *options) { o.global = false }
}

// New builds the providers. Spans are exported to Jaeger when
// cfg.JaegerEndpoint is set and dropped otherwise.
func New(cfg config.ObservabilityConfig, opts ...Option) (*Observability, error) {
	o := &options{registerer: prometheus.DefaultRegisterer, global: true}
	for _, opt := range opts {
		opt(o)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	obs := &Observability{}

	if cfg.JaegerEndpoint != "" {
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		obs.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		obs.tracer = obs.tracerProvider.Tracer(instrumentationName)
		if o.global {
			otel.SetTracerProvider(obs.tracerProvider)
		}
	} else {
		obs.tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(o.registerer))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	obs.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	if o.global {
		otel.SetMeterProvider(obs.meterProvider)
	}

	meter := obs.meterProvider.Meter(instrumentationName)

	obs.questionCounter, err = meter.Int64Counter(
		"qa.questions",
		otelmetric.WithDescription("Number of questions processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create question counter: %w", err)
	}

	obs.questionDuration, err = meter.Float64Histogram(
		"qa.question.duration",
		otelmetric.WithDescription("End-to-end time to answer one question"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create question histogram: %w", err)
	}

	return obs, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

// StartSpan starts a span on the pipeline tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordQuestion counts one processed question and its duration.
func (o *Observability) RecordQuestion(ctx context.Context, mode, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	)
	if o.questionCounter != nil {
		o.questionCounter.Add(ctx, 1, attrs)
	}
	if o.questionDuration != nil {
		o.questionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// Shutdown flushes pending spans and stops the providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
