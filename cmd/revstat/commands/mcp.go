package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/revstat/revstat/pkg/config"
	"github.com/revstat/revstat/pkg/mcp"
	"github.com/revstat/revstat/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the review analytics pipeline as tools that AI
agents can discover and invoke:
  - review_summary: totals, averages, streaks and activity rate
  - review_streaks: the per-day streak series with max and current streak
  - review_gaps: inactivity gaps at or above the configured minimum
  - review_periods: monthly and weekday aggregates
  - review_stages: the pipeline stage catalog`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			providers, err := initObservability(cfg, observability.ModeMCP, debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			red, redErr := observability.NewREDMetrics(providers.Meter)
			if redErr != nil {
				return redErr
			}

			pipeline, pipeErr := observability.NewPipelineMetrics(providers.Meter)
			if pipeErr != nil {
				return pipeErr
			}

			deps := mcp.ServerDeps{
				Logger:   providers.Logger,
				Metrics:  red,
				Pipeline: pipeline,
				Tracer:   providers.Tracer,
				Meter:    providers.Meter,
			}

			srv := mcp.NewServer(deps)

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")

	return cmd
}
