package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "news-scraper"

// GetTracer returns the tracer for scraper spans. It resolves the global
// provider on every call so that a provider installed by Setup is picked up.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "ingest.RunFeed")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Setup installs an SDK tracer provider so spans carry real trace ids, which
// are attached to log lines via TraceAttrs. Additional span processors (for
// example an exporter) may be supplied. The returned function flushes and
// shuts the provider down.
func Setup(processors ...sdktrace.SpanProcessor) func(context.Context) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// TraceAttrs returns slog attributes for the span in ctx, or nil when the
// context carries no valid span.
func TraceAttrs(ctx context.Context) []any {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []any{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
