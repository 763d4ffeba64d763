// Package telemetry wires the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"

	"github.com/abgdnv/produtos/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// NewTracerProvider installs a global tracer provider and W3C propagators.
// When telemetry is disabled the provider records spans locally without exporting,
// so trace ids still show up in logs and outgoing headers.
func NewTracerProvider(ctx context.Context, serviceName string, cfg config.TelemetryConfig) (*tracesdk.TracerProvider, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	opts := []tracesdk.TracerProviderOption{tracesdk.WithResource(res)}

	if cfg.Enabled {
		exp := cfg.Traces.OTLPHTTP
		collectorOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(exp.Endpoint),
			otlptracehttp.WithTimeout(exp.Timeout),
		}
		if exp.URLPath != "" {
			collectorOpts = append(collectorOpts, otlptracehttp.WithURLPath(exp.URLPath))
		}
		if exp.Insecure {
			collectorOpts = append(collectorOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, collectorOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts,
			tracesdk.WithBatcher(exporter),
			tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.Traces.SampleRatio))),
		)
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}
