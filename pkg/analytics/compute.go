package analytics

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/revstat/revstat/pkg/metrics"
	"github.com/revstat/revstat/pkg/reviewlog"
)

// Output format identifiers shared by the CLI and serializers.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatText   = "text"
	FormatPlot   = "plot"
	FormatBinary = "bin"
)

// ComputedMetrics holds the full derived model of one dataset run.
type ComputedMetrics struct {
	Options Options `json:"-" yaml:"-"`

	Days     []EnrichedDay      `json:"days"     yaml:"days"`
	Monthly  []MonthlyAggregate `json:"monthly"  yaml:"monthly"`
	Weekdays []WeekdayAggregate `json:"weekdays" yaml:"weekdays"`
	Gaps     []Gap              `json:"gaps"     yaml:"gaps"`
	Heatmap  HeatmapGrid        `json:"heatmap"  yaml:"heatmap"`
	Summary  SummaryStats       `json:"summary"  yaml:"summary"`
}

// StageObserver is notified when a pipeline stage starts. The returned
// func is called when the stage completes. Stage names match the
// StageCatalog entries.
type StageObserver func(stage string) func()

// ComputeAllMetrics runs the full pipeline over validated records.
// Stages run sequentially in dependency order: calendar enrichment, rolling
// averages, cumulative totals, activity flags, then streaks, gaps, period
// aggregates, the heatmap grid and the summary over the annotated days.
func ComputeAllMetrics(records []reviewlog.DailyRecord, opts Options) *ComputedMetrics {
	return ComputeWithObserver(records, opts, nil)
}

// ComputeWithObserver runs the full pipeline, reporting each stage to the
// observer. A nil observer computes without instrumentation.
func ComputeWithObserver(records []reviewlog.DailyRecord, opts Options, observe StageObserver) *ComputedMetrics {
	if observe == nil {
		observe = func(string) func() { return func() {} }
	}

	done := observe("calendar")
	days := NewCalendarMetric(opts.Policy).Compute(records)
	done()

	done = observe("rolling_average")
	days = NewRollingMetric(opts.Windows).Compute(days)
	done()

	done = observe("cumulative")
	days = NewCumulativeMetric().Compute(days)
	done()

	done = observe("activity")
	days = NewActivityMetric(opts.ActivityThreshold).Compute(days)
	done()

	done = observe("streaks")
	days = NewStreakMetric().Compute(days)
	done()

	done = observe("gaps")
	gaps := NewGapMetric(opts.MinGapDays).Compute(days)
	done()

	done = observe("monthly")
	monthly := NewMonthlyMetric().Compute(days)
	done()

	done = observe("weekdays")
	weekdays := NewWeekdayMetric().Compute(days)
	done()

	done = observe("heatmap")
	heatmap := NewHeatmapMetric().Compute(days)
	done()

	done = observe("summary")
	summary := NewSummaryMetric().Compute(days)
	done()

	return &ComputedMetrics{
		Options:  opts,
		Days:     days,
		Monthly:  monthly,
		Weekdays: weekdays,
		Gaps:     gaps,
		Heatmap:  heatmap,
		Summary:  summary,
	}
}

// StageInfo describes one pipeline stage for catalog listings.
type StageInfo struct {
	Name        string `json:"name"         yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Type        string `json:"type"         yaml:"type"`
	Description string `json:"description"  yaml:"description"`
}

// StageCatalog lists every pipeline stage with its metadata, in execution
// order. Useful for discovery surfaces that want to describe the model
// without computing it.
func StageCatalog() []StageInfo {
	reg := metrics.NewRegistry()
	metrics.Register(reg, NewCalendarMetric(reviewlog.DefaultPolicy))
	metrics.Register(reg, NewRollingMetric(DefaultWindows()))
	metrics.Register(reg, NewCumulativeMetric())
	metrics.Register(reg, NewActivityMetric(DefaultActivityThreshold))
	metrics.Register(reg, NewStreakMetric())
	metrics.Register(reg, NewGapMetric(DefaultMinGapDays))
	metrics.Register(reg, NewMonthlyMetric())
	metrics.Register(reg, NewWeekdayMetric())
	metrics.Register(reg, NewHeatmapMetric())
	metrics.Register(reg, NewSummaryMetric())

	order := []string{
		"calendar", "rolling_average", "cumulative", "activity", "streaks",
		"gaps", "monthly", "weekdays", "heatmap", "summary",
	}

	catalog := make([]StageInfo, 0, len(order))

	for _, name := range order {
		entry, ok := reg.Get(name)
		if !ok {
			continue
		}

		meta, isMeta := entry.(interface {
			Name() string
			DisplayName() string
			Description() string
			Type() string
		})
		if !isMeta {
			continue
		}

		catalog = append(catalog, StageInfo{
			Name:        meta.Name(),
			DisplayName: meta.DisplayName(),
			Type:        meta.Type(),
			Description: meta.Description(),
		})
	}

	return catalog
}

// ToJSON returns the metrics in JSON-serializable form.
func (m *ComputedMetrics) ToJSON() any {
	return m
}

// ToYAML returns the metrics in YAML-serializable form.
func (m *ComputedMetrics) ToYAML() any {
	return m
}

// Serialize writes the metrics to the writer in the given structured format.
// Presentation formats (text, plot, bin) are rendered by their own packages;
// requesting one here returns ErrUnsupportedFormat.
func Serialize(m *ComputedMetrics, format string, writer io.Writer) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")

		if err := enc.Encode(m.ToJSON()); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}

		return nil
	case FormatYAML:
		data, err := yaml.Marshal(m.ToYAML())
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}

		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("yaml write: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// SerializeComparison writes a period comparison in json or yaml form.
func SerializeComparison(c *PeriodComparison, format string, writer io.Writer) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")

		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}

		return nil
	case FormatYAML:
		data, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}

		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("yaml write: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
