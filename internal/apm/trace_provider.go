// Package apm configures OpenTelemetry tracing.
package apm

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/smart-pricing/internal/logger"
)

type Provider string

const (
	ZipkinProvider   Provider = "zipkin"
	ConsoleProvider  Provider = "console"
	OTLPGRPCProvider Provider = "otlp"
	OTLPHTTPProvider Provider = "otlp-http"
	EmptyProvider    Provider = "empty"
)

type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

type TracerOptions struct {
	exporter     sdktrace.SpanExporter
	providerName Provider
	serviceName  string
	useEmpty     bool
}

type TracerOption func(*TracerOptions) error

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) TracerOption {
	return func(o *TracerOptions) error {
		o.serviceName = name
		return nil
	}
}

// WithProvider selects the span exporter. Unknown providers disable tracing.
func WithProvider(provider Provider, endpoint string, log logger.LoggerInterface) TracerOption {
	return func(o *TracerOptions) error {
		var (
			exp sdktrace.SpanExporter
			err error
		)

		switch provider {
		case ZipkinProvider:
			exp, err = zipkin.New(endpoint)
		case ConsoleProvider:
			exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		case OTLPGRPCProvider:
			exp, err = otlptracegrpc.New(context.Background(), otlptracegrpc.WithEndpointURL(endpoint))
		case OTLPHTTPProvider:
			exp, err = otlptracehttp.New(context.Background(), otlptracehttp.WithEndpointURL(endpoint))
		default:
			log.Warn(context.Background(), "trace provider not found, tracing disabled", "provider", provider)
			o.useEmpty = true
			o.providerName = EmptyProvider
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s exporter: %w", provider, err)
		}

		o.exporter = exp
		o.providerName = provider
		return nil
	}
}

// NewTraceProvider builds the SDK tracer provider and installs it globally.
func NewTraceProvider(options ...TracerOption) (TraceProvider, error) {
	opts := &TracerOptions{}
	for _, opt := range options {
		if err := opt(opts); err != nil {
			return nil, err
		}
	}

	if opts.useEmpty || opts.exporter == nil {
		return emptyTraceProvider{}, nil
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(opts.serviceName),
			attribute.String("otel.provider", string(opts.providerName)),
		))
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(opts.exporter),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	return &traceProvider{tp}, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return o.tp.Shutdown(ctx)
}

// TraceID returns the trace id of the span in ctx, or "" when there is none.
// It matches logger.TraceIDFn.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
