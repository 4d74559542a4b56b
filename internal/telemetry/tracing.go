package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracerName is the instrumentation scope used for server spans.
const TracerName = "github.com/iwvelando/mortgage-planner"

const tracesPath = "/v1/traces"

// Tracer returns the tracer for server spans from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// InitTracing installs a global tracer provider. Spans are exported over OTLP
// HTTP when endpoint is set and dropped otherwise. The returned function
// flushes and stops the provider.
func InitTracing(ctx context.Context, logger *zap.Logger, serviceName, version, endpoint string) (func(context.Context) error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if endpoint != "" {
		exporter, err := otlptracehttp.New(ctx, endpointOption(endpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		logger.Info("exporting traces over OTLP",
			zap.String("op", "telemetry.InitTracing"),
			zap.String("endpoint", endpoint),
		)
	} else {
		logger.Debug("no OTLP endpoint configured, spans are not exported",
			zap.String("op", "telemetry.InitTracing"),
		)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// endpointOption accepts either a collector base URL, as
// OTEL_EXPORTER_OTLP_ENDPOINT is usually set, or a bare host:port. A base URL
// without a path gets the standard traces path appended.
func endpointOption(endpoint string) otlptracehttp.Option {
	if !strings.Contains(endpoint, "://") {
		return otlptracehttp.WithEndpoint(endpoint)
	}
	if u, err := url.Parse(endpoint); err == nil && strings.Trim(u.Path, "/") == "" {
		u.Path = tracesPath
		endpoint = u.String()
	}
	return otlptracehttp.WithEndpointURL(endpoint)
}
