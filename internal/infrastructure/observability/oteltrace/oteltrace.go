package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultInstrumentation = "minishop-menu"

type tracer struct{ t trace.Tracer }

// New returns a Tracer backed by the global OTel tracer provider. Until a
// provider with an exporter is installed via otel.SetTracerProvider, spans are
// non-recording but still carry context.
func New(name string) observability.Tracer {
	if name == "" {
		name = defaultInstrumentation
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
