package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/revstat/revstat/pkg/observability"
)

// acceptanceSpanCount is the expected number of spans in the acceptance test
// (root + load + compute + one stage).
const acceptanceSpanCount = 4

// acceptanceRecordCount is the simulated daily record count used in log assertions.
const acceptanceRecordCount = 180

// TestAcceptance_EndToEnd verifies all three observability signals (traces,
// metrics, structured logs with trace context) work together in a single
// simulated pipeline run.
func TestAcceptance_EndToEnd(t *testing.T) {
	t.Parallel()

	// Setup: in-memory trace exporter.
	spanExporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	tracer := tp.Tracer("revstat")

	// Setup: in-memory metric reader.
	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	meter := mp.Meter("revstat")

	red, err := observability.NewREDMetrics(meter)
	require.NoError(t, err)

	pipeline, err := observability.NewPipelineMetrics(meter)
	require.NoError(t, err)

	// Setup: structured logger with trace context.
	var logBuf bytes.Buffer

	innerHandler := slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	tracingHandler := observability.NewTracingHandler(innerHandler, "revstat", "test", observability.ModeCLI)
	logger := slog.New(tracingHandler)

	// Simulate pipeline: root span, child spans, metrics, logs.
	ctx, rootSpan := tracer.Start(context.Background(), "revstat.run")

	_, loadSpan := tracer.Start(ctx, "revstat.load")
	loadSpan.End()

	computeCtx, computeSpan := tracer.Start(ctx, "revstat.compute")

	recorder := observability.NewStageRecorder(computeCtx, tracer)
	done := recorder.Observe("calendar")
	done()

	computeSpan.End()

	// Record metrics within the trace context.
	red.RecordRequest(ctx, "cli.run", "ok", time.Second)

	pipeline.RecordRun(ctx, observability.RunStats{
		Records: acceptanceRecordCount,
		Stages:  recorder.Stages(),
	})

	// Emit a log line within the trace context.
	logger.InfoContext(ctx, "pipeline.complete", "records", acceptanceRecordCount)

	rootSpan.End()

	// Assert: Traces.
	spans := spanExporter.GetSpans()
	require.Len(t, spans, acceptanceSpanCount, "expected root + load + compute + stage spans")

	spanNames := make(map[string]bool, len(spans))
	for _, s := range spans {
		spanNames[s.Name] = true
	}

	assert.True(t, spanNames["revstat.run"], "root span should exist")
	assert.True(t, spanNames["revstat.load"], "load span should exist")
	assert.True(t, spanNames["revstat.compute"], "compute span should exist")
	assert.True(t, spanNames["revstat.pipeline.stage"], "stage span should exist")

	// All spans share the same trace ID.
	traceID := spans[0].SpanContext.TraceID()
	for _, s := range spans[1:] {
		assert.Equal(t, traceID, s.SpanContext.TraceID(),
			"span %q should share trace ID", s.Name)
	}

	// Assert: Metrics.
	var rm metricdata.ResourceMetrics

	err = metricReader.Collect(ctx, &rm)
	require.NoError(t, err)

	reqTotal := findMetric(rm, "revstat.requests.total")
	require.NotNil(t, reqTotal, "request counter should be recorded")

	reqDuration := findMetric(rm, "revstat.request.duration.seconds")
	require.NotNil(t, reqDuration, "duration histogram should be recorded")

	recordsTotal := findMetric(rm, "revstat.pipeline.records.total")
	require.NotNil(t, recordsTotal, "pipeline records counter should be recorded")

	runsTotal := findMetric(rm, "revstat.pipeline.runs.total")
	require.NotNil(t, runsTotal, "pipeline runs counter should be recorded")

	stageDuration := findMetric(rm, "revstat.pipeline.stage.duration.seconds")
	require.NotNil(t, stageDuration, "stage duration histogram should be recorded")

	// Assert: Logs contain trace_id.
	var logRecord map[string]any

	err = json.Unmarshal(logBuf.Bytes(), &logRecord)
	require.NoError(t, err)

	assert.Equal(t, traceID.String(), logRecord["trace_id"],
		"log line should contain the active trace_id")
	assert.Contains(t, logRecord, "span_id",
		"log line should contain span_id")
	assert.Equal(t, "revstat", logRecord["service"],
		"log line should contain service name")

	records, ok := logRecord["records"].(float64)
	require.True(t, ok, "records should be a number")
	assert.InDelta(t, acceptanceRecordCount, records, 0,
		"log line should contain custom attributes")
}
