package telemetry

import (
    "context"

    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
    sdkresource "go.opentelemetry.io/otel/sdk/resource"
    sdktrace "go.opentelemetry.io/otel/sdk/trace"
    semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

    "github.com/d60-Lab/feedsync/config"
)

// Init 初始化 OTLP trace 导出；disabled 时返回空关闭函数
func Init(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
    if !cfg.Enabled {
        return func(context.Context) error { return nil }, nil
    }

    opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
    if cfg.Endpoint != "" {
        opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
    }
    exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
    if err != nil {
        return nil, err
    }

    res, err := sdkresource.Merge(
        sdkresource.Default(),
        sdkresource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.Service)),
    )
    if err != nil {
        return nil, err
    }

    tp := sdktrace.NewTracerProvider(
        sdktrace.WithBatcher(exporter),
        sdktrace.WithResource(res),
    )
    otel.SetTracerProvider(tp)
    return tp.Shutdown, nil
}
