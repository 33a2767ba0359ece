package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/revstat/revstat/pkg/analytics"
)

// SummaryReport is the structured output of the review_summary tool.
type SummaryReport struct {
	Path    string                 `json:"path"`
	Policy  string                 `json:"policy"`
	Summary analytics.SummaryStats `json:"summary"`
}

// StreaksReport is the structured output of the review_streaks tool.
type StreaksReport struct {
	Path          string                `json:"path"`
	Policy        string                `json:"policy"`
	MaxStreak     int                   `json:"max_streak"`
	CurrentStreak int                   `json:"current_streak"`
	Runs          []analytics.StreakRun `json:"runs"`
}

// GapsReport is the structured output of the review_gaps tool.
type GapsReport struct {
	Path       string          `json:"path"`
	Policy     string          `json:"policy"`
	MinGapDays int             `json:"min_gap_days"`
	Count      int             `json:"count"`
	Gaps       []analytics.Gap `json:"gaps"`
}

// PeriodsReport is the structured output of the review_periods tool.
type PeriodsReport struct {
	Path       string                      `json:"path"`
	Policy     string                      `json:"policy"`
	FocusMonth string                      `json:"focus_month"`
	Comparison *analytics.PeriodComparison `json:"comparison"`
}

// HandleSummary processes a review_summary call: load the dataset, run the
// pipeline, and return the scalar summary.
func (t *Tools) HandleSummary(ctx context.Context, _ *mcpsdk.CallToolRequest, input SummaryInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	opts, err := datasetOptions(input.Policy, 0, 0)
	if err != nil {
		return errorResult(err)
	}

	m, err := t.computeDataset(ctx, input.Path, opts)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(SummaryReport{
		Path:    input.Path,
		Policy:  string(m.Options.Policy),
		Summary: m.Summary,
	})
}

// HandleStreaks processes a review_streaks call and returns the streak
// extremes plus every maximal active run.
func (t *Tools) HandleStreaks(ctx context.Context, _ *mcpsdk.CallToolRequest, input StreaksInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	opts, err := datasetOptions(input.Policy, input.ActivityThreshold, 0)
	if err != nil {
		return errorResult(err)
	}

	m, err := t.computeDataset(ctx, input.Path, opts)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(StreaksReport{
		Path:          input.Path,
		Policy:        string(m.Options.Policy),
		MaxStreak:     analytics.MaxStreak(m.Days),
		CurrentStreak: analytics.CurrentStreak(m.Days),
		Runs:          analytics.StreakRuns(m.Days),
	})
}

// HandleGaps processes a review_gaps call and returns every inactive run at
// least min_gap_days long.
func (t *Tools) HandleGaps(ctx context.Context, _ *mcpsdk.CallToolRequest, input GapsInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	opts, err := datasetOptions(input.Policy, 0, input.MinGapDays)
	if err != nil {
		return errorResult(err)
	}

	m, err := t.computeDataset(ctx, input.Path, opts)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(GapsReport{
		Path:       input.Path,
		Policy:     string(m.Options.Policy),
		MinGapDays: m.Options.MinGapDays,
		Count:      len(m.Gaps),
		Gaps:       m.Gaps,
	})
}

// HandlePeriods processes a review_periods call, comparing one focus month
// against the full dataset. An empty focus_month selects the latest month.
func (t *Tools) HandlePeriods(ctx context.Context, _ *mcpsdk.CallToolRequest, input PeriodsInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	opts, err := datasetOptions(input.Policy, 0, 0)
	if err != nil {
		return errorResult(err)
	}

	m, err := t.computeDataset(ctx, input.Path, opts)
	if err != nil {
		return errorResult(err)
	}

	month := input.FocusMonth
	if month == "" && len(m.Days) > 0 {
		month = m.Days[len(m.Days)-1].Month
	}

	comparison, err := analytics.CompareMonth(m.Days, month)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(PeriodsReport{
		Path:       input.Path,
		Policy:     string(m.Options.Policy),
		FocusMonth: month,
		Comparison: comparison,
	})
}
