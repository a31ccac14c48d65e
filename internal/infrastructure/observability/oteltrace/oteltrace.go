package oteltrace

import (
	"context"

	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a Tracer backed by the global OpenTelemetry tracer provider.
// The integrator is responsible for installing an SDK provider and exporter;
// without one, spans are no-ops.
func New(name string) observability.Tracer {
	if name == "" {
		name = "order-facade"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
