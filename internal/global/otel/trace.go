package otel

import (
	"context"
	"net"

	"attendance-system/config"
	"attendance-system/tools"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

var tracerProvider *sdktrace.TracerProvider

func newExporter(ctx context.Context, c config.OTel) (sdktrace.SpanExporter, error) {
	return otlptracehttp.New(ctx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(net.JoinHostPort(c.AgentHost, c.AgentPort)),
	)
}

// Init 创建 OTLP/HTTP 导出的 TracerProvider 并设为全局
func Init() {
	c := config.Get().OTel

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(c.ServiceName),
			semconv.DeploymentEnvironment(string(config.Get().Mode)),
		),
	)
	tools.PanicOnErr(err)

	exp, err := newExporter(context.Background(), c)
	tools.PanicOnErr(err)

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
}

// Shutdown 退出前刷新未导出的 span
func Shutdown(ctx context.Context) error {
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}
