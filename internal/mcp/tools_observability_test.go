package mcp

import (
	"context"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/observability"
)

func TestComputeDatasetEmitsTelemetry(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	pipeline, err := observability.NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	tools := New(tp.Tracer("test"), pipeline)
	path := writeDataset(t, "reviews.csv", datasetCSV)

	result, _, err := tools.HandleSummary(context.Background(), &mcpsdk.CallToolRequest{}, SummaryInput{Path: path})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	stageSpans := 0
	names := map[string]bool{}

	for _, s := range recorder.Ended() {
		names[s.Name()] = true

		if s.Name() == "revstat.pipeline.stage" {
			stageSpans++
		}
	}

	assert.True(t, names["revstat.load"])
	assert.True(t, names["revstat.compute"])
	assert.Equal(t, 10, stageSpans, "one span per pipeline stage")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	metrics := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = true
		}
	}

	assert.True(t, metrics["revstat.pipeline.records.total"])
	assert.True(t, metrics["revstat.pipeline.runs.total"])
	assert.True(t, metrics["revstat.pipeline.stage.duration.seconds"])
}

func TestComputeDatasetWithoutTelemetry(t *testing.T) {
	t.Parallel()

	tools := New(nil, nil)
	path := writeDataset(t, "reviews.csv", datasetCSV)

	m, err := tools.computeDataset(context.Background(), path, defaultToolOptions(t))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 9, m.Summary.TotalDays)
}

// defaultToolOptions resolves the option set tools use when a call passes
// no overrides.
func defaultToolOptions(t *testing.T) analytics.Options {
	t.Helper()

	opts, err := datasetOptions("", 0, 0)
	require.NoError(t, err)

	return opts
}
