package observability_test

import (
	"context"
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

func setupPipelineMeter(t *testing.T) (*observability.PipelineMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	pm, err := observability.NewPipelineMetrics(meter)
	require.NoError(t, err)

	return pm, reader
}

func TestNewPipelineMetrics(t *testing.T) {
	t.Parallel()

	pm, _ := setupPipelineMeter(t)
	assert.NotNil(t, pm)
}

func TestPipelineMetrics_RecordRun(t *testing.T) {
	t.Parallel()

	pm, reader := setupPipelineMeter(t)
	ctx := context.Background()

	pm.RecordRun(ctx, observability.RunStats{
		Records: 365,
		Stages: []observability.StageTiming{
			{Name: "calendar", Duration: time.Millisecond},
			{Name: "rolling_average", Duration: 2 * time.Millisecond},
			{Name: "summary", Duration: time.Millisecond / 2},
		},
	})

	rm := collectMetrics(t, reader)

	records := findMetric(rm, "revstat.pipeline.records.total")
	require.NotNil(t, records, "records counter should exist")

	runs := findMetric(rm, "revstat.pipeline.runs.total")
	require.NotNil(t, runs, "runs counter should exist")

	stageDur := findMetric(rm, "revstat.pipeline.stage.duration.seconds")
	require.NotNil(t, stageDur, "stage duration histogram should exist")

	// Each stage is a separate attribute set with one recording.
	hist, ok := stageDur.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected Histogram data type")
	assert.Len(t, hist.DataPoints, 3, "one data point per stage")
}

func TestPipelineMetrics_RecordRun_NilReceiver(t *testing.T) {
	t.Parallel()

	var pm *observability.PipelineMetrics

	// Should not panic.
	pm.RecordRun(context.Background(), observability.RunStats{Records: 10})
}

func TestStageRecorder_CollectsTimings(t *testing.T) {
	t.Parallel()

	sr := observability.NewStageRecorder(context.Background(), nil)

	done := sr.Observe("calendar")
	done()

	done = sr.Observe("gaps")
	done()

	stages := sr.Stages()
	require.Len(t, stages, 2)
	assert.Equal(t, "calendar", stages[0].Name)
	assert.Equal(t, "gaps", stages[1].Name)
	assert.GreaterOrEqual(t, stages[0].Duration, time.Duration(0))
}

func TestStageRecorder_CreatesSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	tracer := tp.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "revstat.compute")

	sr := observability.NewStageRecorder(ctx, tracer)

	done := sr.Observe("streaks")
	done()

	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Stage span is a child of the compute span.
	assert.Equal(t, "revstat.pipeline.stage", spans[0].Name)
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent.SpanID())
}

// stubRunStats implements observability.RunStatsProvider for testing.
type stubRunStats struct {
	records int64
	took    time.Duration
}

func (s *stubRunStats) LastRunRecords() int64          { return s.records }
func (s *stubRunStats) LastRunDuration() time.Duration { return s.took }

func TestRunGauges_Exported(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	stats := &stubRunStats{records: 180, took: 250 * time.Millisecond}

	err := observability.RegisterRunGauges(meter, stats)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	err = reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	records := findMetric(rm, "revstat.pipeline.last_run.records")
	require.NotNil(t, records, "revstat.pipeline.last_run.records metric not found")

	recordsGauge, ok := records.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "expected Gauge data type for records")
	require.NotEmpty(t, recordsGauge.DataPoints)
	assert.Equal(t, int64(180), recordsGauge.DataPoints[0].Value)

	duration := findMetric(rm, "revstat.pipeline.last_run.duration.seconds")
	require.NotNil(t, duration, "revstat.pipeline.last_run.duration.seconds metric not found")

	durationGauge, ok := duration.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "expected Gauge data type for duration")
	require.NotEmpty(t, durationGauge.DataPoints)
	assert.InDelta(t, 0.25, durationGauge.DataPoints[0].Value, 1e-9)
}

func TestRunGauges_NilProvider(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	// Should not error with a nil provider.
	err := observability.RegisterRunGauges(meter, nil)
	require.NoError(t, err)
}
