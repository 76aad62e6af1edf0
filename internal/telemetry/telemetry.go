// Package telemetry wires OpenTelemetry tracing for the server and the API client.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-lifestats/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global OTLP/HTTP tracer provider exporting to endpoint.
// An empty endpoint leaves tracing disabled and returns a no-op shutdown.
func Setup(ctx context.Context, service, endpoint string) (ShutdownFunc, error) {
	// Propagation is always on so inbound trace headers reach upstream calls.
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if endpoint == "" {
		slog.Debug(config.MsgTelemetryOff, config.LogKeyComponent, config.CompTelemetry)
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, fmt.Errorf("%s: %w", config.ErrTelemetrySetup, err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(service),
			semconv.ServiceVersion(config.Version),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("%s: %w", config.ErrTelemetrySetup, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	slog.Info(config.MsgTelemetryOn,
		config.LogKeyComponent, config.CompTelemetry,
		config.LogKeyEndpoint, endpoint)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrTelemetryFlush, err)
		}
		return nil
	}, nil
}

// Tracer returns the application tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(config.TracerName)
}
