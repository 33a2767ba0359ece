package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	metricRecordsTotal   = "revstat.pipeline.records.total"
	metricRunsTotal      = "revstat.pipeline.runs.total"
	metricStageDuration  = "revstat.pipeline.stage.duration.seconds"
	metricLastRunRecords = "revstat.pipeline.last_run.records"
	metricLastRunSeconds = "revstat.pipeline.last_run.duration.seconds"

	attrStage = "pipeline.stage"
)

// stageBucketBoundaries covers 0.1ms to 5s. Individual stages are single
// passes over the day slice, so even multi-year datasets stay sub-second.
var stageBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// PipelineMetrics holds OTel instruments for pipeline-specific metrics.
type PipelineMetrics struct {
	recordsTotal  metric.Int64Counter
	runsTotal     metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// StageTiming is the measured duration of one completed pipeline stage.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// RunStats holds the statistics for a single pipeline run, decoupled
// from the analytics types.
type RunStats struct {
	Records int64
	Stages  []StageTiming
}

// NewPipelineMetrics creates pipeline metric instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	records, err := mt.Int64Counter(metricRecordsTotal,
		metric.WithDescription("Total daily records processed"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecordsTotal, err)
	}

	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Total pipeline runs completed"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	stageDur, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Per-stage processing duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	return &PipelineMetrics{
		recordsTotal:  records,
		runsTotal:     runs,
		stageDuration: stageDur,
	}, nil
}

// RecordRun records statistics for a completed pipeline run.
// Safe to call on a nil receiver (no-op).
func (pm *PipelineMetrics) RecordRun(ctx context.Context, stats RunStats) {
	if pm == nil {
		return
	}

	pm.recordsTotal.Add(ctx, stats.Records)
	pm.runsTotal.Add(ctx, 1)

	for _, st := range stats.Stages {
		pm.stageDuration.Record(ctx, st.Duration.Seconds(),
			metric.WithAttributes(attribute.String(attrStage, st.Name)))
	}
}

// StageRecorder instruments pipeline stages with spans and collects
// per-stage timings for metric recording after the run. It is not safe
// for concurrent use; the pipeline executes stages sequentially.
type StageRecorder struct {
	ctx    context.Context
	tracer trace.Tracer
	stages []StageTiming
}

// NewStageRecorder creates a recorder whose stage spans are children of
// the span in ctx. A nil tracer collects timings without creating spans.
func NewStageRecorder(ctx context.Context, tracer trace.Tracer) *StageRecorder {
	return &StageRecorder{ctx: ctx, tracer: tracer}
}

// Observe marks the start of a stage. The returned func completes the
// stage, ending its span and storing the timing. The signature matches
// the analytics stage observer callback.
func (sr *StageRecorder) Observe(stage string) func() {
	start := time.Now()

	var span trace.Span
	if sr.tracer != nil {
		_, span = sr.tracer.Start(sr.ctx, stageSpanName,
			trace.WithAttributes(attribute.String(attrStage, stage)),
		)
	}

	return func() {
		if span != nil {
			span.End()
		}

		sr.stages = append(sr.stages, StageTiming{Name: stage, Duration: time.Since(start)})
	}
}

// Stages returns the collected timings in completion order.
func (sr *StageRecorder) Stages() []StageTiming {
	return sr.stages
}

// RunStatsProvider reports statistics from the most recent pipeline run.
type RunStatsProvider interface {
	LastRunRecords() int64
	LastRunDuration() time.Duration
}

// RegisterRunGauges registers observable gauges exposing the record count
// and duration of the most recent pipeline run. A nil provider skips
// registration. Intended for long-lived MCP sessions where the periodic
// reader exports between tool calls.
func RegisterRunGauges(mt metric.Meter, stats RunStatsProvider) error {
	if stats == nil {
		return nil
	}

	_, err := mt.Int64ObservableGauge(metricLastRunRecords,
		metric.WithDescription("Daily records in the most recent pipeline run"),
		metric.WithUnit("{record}"),
		metric.WithInt64Callback(func(_ context.Context, obs metric.Int64Observer) error {
			obs.Observe(stats.LastRunRecords())

			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricLastRunRecords, err)
	}

	_, err = mt.Float64ObservableGauge(metricLastRunSeconds,
		metric.WithDescription("Duration of the most recent pipeline run in seconds"),
		metric.WithUnit("s"),
		metric.WithFloat64Callback(func(_ context.Context, obs metric.Float64Observer) error {
			obs.Observe(stats.LastRunDuration().Seconds())

			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricLastRunSeconds, err)
	}

	return nil
}
