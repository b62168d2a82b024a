// Package otel wraps the OpenTelemetry tracer behind a small Scope API used by every layer.
package otel

import (
	"context"

	"donorlink/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc/credentials/insecure"
)

type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
}

type otelImpl struct {
	provider *trace.TracerProvider
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

func serviceResource(cfg *config.Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.App.Name),
		semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
	)
}

// sampler keeps every trace unless a ratio in (0, 1) is configured.
func sampler(ratio float64) trace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return trace.ParentBased(trace.AlwaysSample())
	}

	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}

// New exports spans over OTLP/gRPC. Without an endpoint spans are recorded but never exported,
// which is what the worker commands get on a developer machine.
func New(cfg *config.Config) Otel {
	options := []trace.TracerProviderOption{
		trace.WithResource(serviceResource(cfg)),
		trace.WithSampler(sampler(cfg.External.Otel.SampleRatio)),
	}

	endpoint := cfg.External.Otel.Endpoint
	if endpoint == "" {
		log.Warn().Str("service", cfg.App.Name).Msg("OTEL endpoint not set, traces will not be exported")

		return &otelImpl{provider: trace.NewTracerProvider(options...)}
	}

	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", endpoint).Msg("failed to create OTLP exporter")
	}

	provider := trace.NewTracerProvider(append(options, trace.WithBatcher(exporter))...)
	otel.SetTracerProvider(provider)

	log.Info().Str("endpoint", endpoint).Float64("sample_ratio", cfg.External.Otel.SampleRatio).Msg("exporting traces")

	return &otelImpl{provider: provider}
}
