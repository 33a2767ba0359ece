package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	logKeyTraceID = "trace_id"
	logKeySpanID  = "span_id"
	logKeyService = "service"
	logKeyEnv     = "env"
	logKeyMode    = "mode"
)

// TracingHandler is an [slog.Handler] that stamps every record with the
// active span's trace_id and span_id, so a log line from a pipeline run or
// an MCP tool call can be joined with its trace. The service identity
// (service, env, mode) is attached once at construction, which keeps those
// keys at the top level no matter how callers group their loggers.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with trace correlation and the service
// identity attributes. An empty env is omitted rather than logged blank.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	identity := []slog.Attr{
		slog.String(logKeyService, service),
		slog.String(logKeyMode, string(appMode)),
	}

	if env != "" {
		identity = append(identity, slog.String(logKeyEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(identity)}
}

func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle copies the span context, when one is present, into the record
// before delegating to the wrapped handler.
func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(logKeyTraceID, sc.TraceID().String()),
			slog.String(logKeySpanID, sc.SpanID().String()),
		)
	}

	if err := h.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("emit log record: %w", err)
	}

	return nil
}

func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: h.inner.WithGroup(name)}
}
