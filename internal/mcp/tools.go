// Package mcp implements the dataset tool handlers served over the Model
// Context Protocol. Each tool loads a review log dataset, runs the metrics
// pipeline, and returns structured JSON.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/observability"
	"github.com/revstat/revstat/pkg/reviewlog"
	"github.com/revstat/revstat/pkg/snapshot"
)

// Tool name constants.
const (
	ToolNameSummary = "review_summary"
	ToolNameStreaks = "review_streaks"
	ToolNameGaps    = "review_gaps"
	ToolNamePeriods = "review_periods"
	ToolNameStages  = "review_stages"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates the path is not an absolute path.
	ErrPathNotAbsolute = errors.New("path must be an absolute path")
	// ErrDatasetNotFound indicates the dataset path does not exist.
	ErrDatasetNotFound = errors.New("dataset path does not exist")
	// ErrPathIsDirectory indicates the path points at a directory.
	ErrPathIsDirectory = errors.New("path must be a file, not a directory")
)

// Input types (auto-generate JSON schemas via struct tags).

// SummaryInput is the input schema for the review_summary tool.
type SummaryInput struct {
	Path   string `json:"path"             jsonschema:"absolute path to a review dataset (.csv, .json, or .rvst snapshot)"`
	Policy string `json:"policy,omitempty" jsonschema:"total policy: all, gross, or honest (default honest)"`
}

// StreaksInput is the input schema for the review_streaks tool.
type StreaksInput struct {
	Path              string `json:"path"                         jsonschema:"absolute path to a review dataset (.csv, .json, or .rvst snapshot)"`
	Policy            string `json:"policy,omitempty"             jsonschema:"total policy: all, gross, or honest (default honest)"`
	ActivityThreshold int    `json:"activity_threshold,omitempty" jsonschema:"minimum daily total for a day to count as active (default 1)"`
}

// GapsInput is the input schema for the review_gaps tool.
type GapsInput struct {
	Path       string `json:"path"                   jsonschema:"absolute path to a review dataset (.csv, .json, or .rvst snapshot)"`
	Policy     string `json:"policy,omitempty"       jsonschema:"total policy: all, gross, or honest (default honest)"`
	MinGapDays int    `json:"min_gap_days,omitempty" jsonschema:"minimum run of zero-activity days to report as a gap (default 3)"`
}

// PeriodsInput is the input schema for the review_periods tool.
type PeriodsInput struct {
	Path       string `json:"path"                  jsonschema:"absolute path to a review dataset (.csv, .json, or .rvst snapshot)"`
	Policy     string `json:"policy,omitempty"      jsonschema:"total policy: all, gross, or honest (default honest)"`
	FocusMonth string `json:"focus_month,omitempty" jsonschema:"month key (e.g. 2025-06) to compare against the full range"`
}

// StagesInput is the input schema for the review_stages tool.
type StagesInput struct{}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Tools bundles the dataset tool handlers with their shared pipeline
// instrumentation. The zero value serves tools without telemetry.
type Tools struct {
	tracer   trace.Tracer
	pipeline *observability.PipelineMetrics

	lastRecords  atomic.Int64
	lastDuration atomic.Int64
}

// New creates the tool handler set. A nil tracer disables spans and a nil
// pipeline disables pipeline metrics.
func New(tracer trace.Tracer, pipeline *observability.PipelineMetrics) *Tools {
	return &Tools{tracer: tracer, pipeline: pipeline}
}

// LastRunRecords implements [observability.RunStatsProvider].
func (t *Tools) LastRunRecords() int64 {
	return t.lastRecords.Load()
}

// LastRunDuration implements [observability.RunStatsProvider].
func (t *Tools) LastRunDuration() time.Duration {
	return time.Duration(t.lastDuration.Load())
}

// computeDataset validates the path, loads the records, and runs the full
// pipeline, recording spans and pipeline metrics along the way.
func (t *Tools) computeDataset(ctx context.Context, path string, opts analytics.Options) (*analytics.ComputedMetrics, error) {
	err := validateDatasetPath(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	_, loadSpan := t.startSpan(ctx, "revstat.load")

	records, err := loadDataset(path)

	t.endSpan(loadSpan, attribute.Int("dataset.records", len(records)))

	if err != nil {
		return nil, err
	}

	computeCtx, computeSpan := t.startSpan(ctx, "revstat.compute")

	recorder := observability.NewStageRecorder(computeCtx, t.tracer)
	m := analytics.ComputeWithObserver(records, opts, recorder.Observe)

	t.endSpan(computeSpan)

	took := time.Since(start)

	t.pipeline.RecordRun(ctx, observability.RunStats{
		Records: int64(len(records)),
		Stages:  recorder.Stages(),
	})

	t.lastRecords.Store(int64(len(records)))
	t.lastDuration.Store(int64(took))

	return m, nil
}

// startSpan opens a span when a tracer is configured.
func (t *Tools) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if t.tracer == nil {
		return ctx, nil
	}

	return t.tracer.Start(ctx, name)
}

// endSpan closes a span opened by startSpan.
func (t *Tools) endSpan(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}

	span.SetAttributes(attrs...)
	span.End()
}

// validateDatasetPath checks common dataset path constraints.
func validateDatasetPath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPathIsDirectory, path)
	}

	return nil
}

// loadDataset reads records from path, routing snapshot files to the binary
// codec and everything else to the CSV/JSON readers.
func loadDataset(path string) ([]reviewlog.DailyRecord, error) {
	if strings.EqualFold(filepath.Ext(path), snapshot.Extension) {
		return snapshot.ReadFile(path)
	}

	return reviewlog.ReadFile(path)
}

// datasetOptions builds pipeline options from the common tool arguments.
// Zero values fall back to the defaults.
func datasetOptions(policy string, activityThreshold, minGapDays int) (analytics.Options, error) {
	opts := analytics.DefaultOptions()

	if policy != "" {
		parsed, err := reviewlog.ParseTotalPolicy(policy)
		if err != nil {
			return analytics.Options{}, err
		}

		opts.Policy = parsed
	}

	if activityThreshold > 0 {
		opts.ActivityThreshold = activityThreshold
	}

	if minGapDays > 0 {
		opts.MinGapDays = minGapDays
	}

	return opts, nil
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
