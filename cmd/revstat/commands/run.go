// Package commands implements CLI command handlers for revstat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/config"
	"github.com/revstat/revstat/pkg/dashboard"
	"github.com/revstat/revstat/pkg/observability"
	"github.com/revstat/revstat/pkg/plotpage"
	"github.com/revstat/revstat/pkg/report"
	"github.com/revstat/revstat/pkg/reviewlog"
	"github.com/revstat/revstat/pkg/snapshot"
)

var (
	// ErrDatasetTooLarge indicates the dataset exceeds the configured size cap.
	ErrDatasetTooLarge = errors.New("dataset exceeds max file size")
	// ErrCompareFormat indicates --compare was combined with a presentation format.
	ErrCompareFormat = errors.New("--compare supports json, yaml and text output only")
)

// RunCommand holds configuration and dependencies for the run command.
type RunCommand struct {
	configPath   string
	format       string
	inputFormat  string
	policy       string
	threshold    int
	windows      []int
	minGapDays   int
	outputPath   string
	compareMonth string
	theme        string
	debug        bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	rc := &RunCommand{}

	cmd := &cobra.Command{
		Use:   "run <dataset>",
		Short: "Compute review statistics from a daily log",
		Long: `Run the full analytics pipeline over a daily review log and render
the derived model: enriched days, monthly and weekday aggregates, gaps,
the activity heatmap and the summary snapshot.

Examples:
  revstat run reviews.csv
  revstat run reviews.json --format plot -o dashboard.html
  revstat run reviews.csv --format bin -o reviews.bin
  revstat run reviews.bin --format text
  revstat run reviews.csv --compare 2024-03`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "Config file path (default: revstat.yaml search paths)")
	cmd.Flags().StringVar(&rc.format, "format", "", "Output format: json, yaml, text, plot, bin")
	cmd.Flags().StringVar(&rc.inputFormat, "input-format", "", "Input format: auto, csv, json, bin")
	cmd.Flags().StringVar(&rc.policy, "policy", "", "Total policy: honest, gross, all")
	cmd.Flags().IntVar(&rc.threshold, "threshold", 0, "Minimum total for an active day")
	cmd.Flags().IntSliceVar(&rc.windows, "windows", nil, "Centered moving-average windows, in days")
	cmd.Flags().IntVar(&rc.minGapDays, "min-gap-days", 0, "Minimum inactive run reported as a gap")
	cmd.Flags().StringVarP(&rc.outputPath, "output", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&rc.compareMonth, "compare", "", "Compare a focus month (YYYY-MM) against the full range")
	cmd.Flags().StringVar(&rc.theme, "theme", "", "Dashboard color theme: light, dark")
	cmd.Flags().BoolVar(&rc.debug, "debug", false, "Enable debug logging and verbose tracing")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	rc.applyOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	providers, err := initObservability(cfg, observability.ModeCLI, rc.debug)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	ctx, span := providers.Tracer.Start(cmd.Context(), "run",
		trace.WithAttributes(attribute.String("dataset", args[0])),
	)
	defer span.End()

	records, err := rc.loadDataset(ctx, cfg, providers, args[0])
	if err != nil {
		return err
	}

	model, err := rc.compute(ctx, cfg, providers, records)
	if err != nil {
		return err
	}

	writer, closeOutput, err := rc.openOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOutput()

	return rc.render(ctx, cfg, providers, model, records, writer)
}

// applyOverrides copies changed flag values over the loaded configuration.
// Unset flags keep the config file / default values.
func (rc *RunCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = rc.format
	}

	if flags.Changed("input-format") {
		cfg.Input.Format = rc.inputFormat
	}

	if flags.Changed("policy") {
		cfg.Input.Policy = rc.policy
	}

	if flags.Changed("threshold") {
		cfg.Pipeline.ActivityThreshold = rc.threshold
	}

	if flags.Changed("windows") {
		cfg.Pipeline.Windows = rc.windows
	}

	if flags.Changed("min-gap-days") {
		cfg.Pipeline.MinGapDays = rc.minGapDays
	}

	if flags.Changed("theme") {
		cfg.Output.Theme = rc.theme
	}
}

func (rc *RunCommand) loadDataset(
	ctx context.Context,
	cfg *config.Config,
	providers observability.Providers,
	path string,
) ([]reviewlog.DailyRecord, error) {
	_, span := providers.Tracer.Start(ctx, "load",
		trace.WithAttributes(attribute.String("path", path)),
	)
	defer span.End()

	if err := checkFileSize(path, cfg.MaxFileSizeBytes()); err != nil {
		return nil, err
	}

	records, err := readRecords(path, cfg.Input.Format)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	providers.Logger.Debug("dataset loaded", "path", path, "records", len(records))

	return records, nil
}

// readRecords dispatches on the resolved input format. Binary snapshots
// carry raw counts only, so they are re-validated like any other source.
func readRecords(path, format string) ([]reviewlog.DailyRecord, error) {
	if format == "" || format == "auto" {
		format = detectInputFormat(path)
	}

	switch format {
	case "bin":
		records, err := snapshot.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := reviewlog.Validate(records); err != nil {
			return nil, err
		}

		return records, nil
	case "csv", "json":
		return reviewlog.ReadFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", reviewlog.ErrUnknownInput, format)
	}
}

func detectInputFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".rvst":
		return "bin"
	case ".json":
		return "json"
	default:
		return "csv"
	}
}

func checkFileSize(path string, maxBytes uint64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat dataset: %w", err)
	}

	if maxBytes > 0 && info.Size() > 0 && uint64(info.Size()) > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, cap is %d", ErrDatasetTooLarge, path, info.Size(), maxBytes)
	}

	return nil
}

func (rc *RunCommand) compute(
	ctx context.Context,
	cfg *config.Config,
	providers observability.Providers,
	records []reviewlog.DailyRecord,
) (*analytics.ComputedMetrics, error) {
	computeCtx, span := providers.Tracer.Start(ctx, "compute")
	defer span.End()

	recorder := observability.NewStageRecorder(computeCtx, providers.Tracer)

	model := analytics.ComputeWithObserver(records, cfg.AnalyticsOptions(), recorder.Observe)

	pipelineMetrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, err
	}

	pipelineMetrics.RecordRun(computeCtx, observability.RunStats{
		Records: int64(len(records)),
		Stages:  recorder.Stages(),
	})

	providers.Logger.Debug("pipeline completed",
		"records", len(records),
		"gaps", len(model.Gaps),
		"max_streak", model.Summary.MaxStreak,
	)

	return model, nil
}

func (rc *RunCommand) openOutput(stdout io.Writer) (io.Writer, func(), error) {
	if rc.outputPath == "" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(rc.outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", rc.outputPath, err)
	}

	return f, func() { _ = f.Close() }, nil
}

func (rc *RunCommand) render(
	ctx context.Context,
	cfg *config.Config,
	providers observability.Providers,
	model *analytics.ComputedMetrics,
	records []reviewlog.DailyRecord,
	writer io.Writer,
) error {
	_, span := providers.Tracer.Start(ctx, "render",
		trace.WithAttributes(attribute.String("format", cfg.Output.Format)),
	)
	defer span.End()

	if rc.compareMonth != "" {
		return renderComparison(model, rc.compareMonth, cfg.Output.Format, writer)
	}

	switch cfg.Output.Format {
	case analytics.FormatText:
		return report.Generate(model, writer)
	case analytics.FormatPlot:
		return dashboard.GenerateWithTheme(model, plotpage.Theme(cfg.Output.Theme), writer)
	case analytics.FormatBinary:
		return snapshot.Encode(writer, records)
	default:
		return analytics.Serialize(model, cfg.Output.Format, writer)
	}
}

// renderComparison emits the focus-month comparison instead of the full
// model. Presentation formats have no comparison layout.
func renderComparison(model *analytics.ComputedMetrics, month, format string, writer io.Writer) error {
	comparison, err := analytics.CompareMonth(model.Days, month)
	if err != nil {
		return err
	}

	switch format {
	case analytics.FormatJSON, analytics.FormatYAML:
		return analytics.SerializeComparison(comparison, format, writer)
	case analytics.FormatText:
		return report.GenerateComparison(comparison, writer)
	default:
		return fmt.Errorf("%w: got %s", ErrCompareFormat, format)
	}
}
