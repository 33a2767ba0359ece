// Package mcp implements a Model Context Protocol server exposing review
// dataset analytics as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	mcptools "github.com/revstat/revstat/internal/mcp"
	"github.com/revstat/revstat/pkg/observability"
	"github.com/revstat/revstat/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "revstat"

	// toolCount is the expected number of registered tools.
	toolCount = 5
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Pipeline is an optional pipeline metrics recorder shared by all dataset
	// tools. Nil disables per-run pipeline metrics.
	Pipeline *observability.PipelineMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Meter is an optional OTel meter for last-run gauges. Nil disables them.
	Meter metric.Meter
}

// Server wraps the MCP SDK server with the review analytics tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	handlers *mcptools.Tools
	mu       sync.RWMutex
	tools    []string
	metrics  *observability.REDMetrics
	tracer   trace.Tracer
}

// NewServer creates a new MCP server with all review analytics tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:    inner,
		handlers: mcptools.New(deps.Tracer, deps.Pipeline),
		tools:    make([]string, 0, toolCount),
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
	}

	srv.registerRunGauges(deps)
	srv.registerTools()

	return srv
}

// registerRunGauges exports the last-run gauges when a meter is configured.
// A registration failure degrades to unexported gauges, not a dead server.
func (s *Server) registerRunGauges(deps ServerDeps) {
	if deps.Meter == nil {
		return
	}

	err := observability.RegisterRunGauges(deps.Meter, s.handlers)
	if err != nil && deps.Logger != nil {
		deps.Logger.Warn("failed to register run gauges", slog.Any("error", err))
	}
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all review analytics tools to the server.
func (s *Server) registerTools() {
	s.registerSummaryTool()
	s.registerStreaksTool()
	s.registerGapsTool()
	s.registerPeriodsTool()
	s.registerStagesTool()
}

func (s *Server) registerSummaryTool() {
	name := mcptools.ToolNameSummary

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: summaryToolDescription,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, s.handlers.HandleSummary)))

	s.trackTool(name)
}

func (s *Server) registerStreaksTool() {
	name := mcptools.ToolNameStreaks

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: streaksToolDescription,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, s.handlers.HandleStreaks)))

	s.trackTool(name)
}

func (s *Server) registerGapsTool() {
	name := mcptools.ToolNameGaps

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: gapsToolDescription,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, s.handlers.HandleGaps)))

	s.trackTool(name)
}

func (s *Server) registerPeriodsTool() {
	name := mcptools.ToolNamePeriods

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: periodsToolDescription,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, s.handlers.HandlePeriods)))

	s.trackTool(name)
}

func (s *Server) registerStagesTool() {
	name := mcptools.ToolNameStages

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: stagesToolDescription,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, s.handlers.HandleStages)))

	s.trackTool(name)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// toolHandler is the generic MCP tool handler signature shared by all
// review analytics tools.
type toolHandler[Input any] = func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, mcptools.ToolOutput, error)

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](tracer trace.Tracer, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, mcptools.ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		// Include trace_id in response when span is sampled.
		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](metrics *observability.REDMetrics, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, mcptools.ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, mcpSpanPrefix+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordRequest(ctx, mcpSpanPrefix+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	summaryToolDescription = "Summarize a spaced-repetition review dataset: " +
		"totals per answer category, activity ratios, per-day averages, " +
		"streak extremes and the covered date range. " +
		"Accepts a dataset path and an optional total policy."

	streaksToolDescription = "List active-day streaks in a review dataset: " +
		"the longest and current streaks plus every maximal run of " +
		"consecutive active days. " +
		"Accepts a dataset path, an optional total policy and activity threshold."

	gapsToolDescription = "Find inactivity gaps in a review dataset: " +
		"maximal runs of consecutive inactive days meeting a minimum length. " +
		"Accepts a dataset path, an optional total policy and minimum gap length."

	periodsToolDescription = "Compare one focus month of a review dataset " +
		"against the full range: study-day medians, activity and clean rates. " +
		"Accepts a dataset path, an optional total policy and focus month; " +
		"the latest month is compared when none is given."

	stagesToolDescription = "Describe the analytics pipeline: every stage " +
		"with its display name, result type and semantics, in execution order. " +
		"Needs no dataset."
)
