package observability

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BuildResourceForTest exposes newResource for tests.
var BuildResourceForTest = newResource

// RootSpanSampled reports whether a root span created under the sampler
// chosen for cfg would be sampled.
func RootSpanSampled(cfg Config) bool {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(chooseSampler(cfg)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("sampler-check").Start(context.Background(), "root")
	defer span.End()

	return span.SpanContext().IsSampled()
}
