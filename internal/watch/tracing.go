package watch

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracer wraps an optional OpenTelemetry tracer exporting spans for each lex
// run to stdout. A nil *tracer is valid and does nothing.
type tracer struct {
	provider *sdktrace.TracerProvider
	tr       trace.Tracer
}

func newTracer() (*tracer, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return &tracer{
		provider: provider,
		tr:       provider.Tracer("hilex/watch"),
	}, nil
}

func (t *tracer) start(ctx context.Context, name, path string) (context.Context, trace.Span) {
	if t == nil {
		return ctx, nil
	}
	return t.tr.Start(ctx, name, trace.WithAttributes(attribute.String("file.path", path)))
}

func (t *tracer) end(span trace.Span) {
	if t == nil || span == nil {
		return
	}
	span.End()
}

func (t *tracer) shutdown() {
	if t == nil {
		return
	}
	_ = t.provider.Shutdown(context.Background())
}
