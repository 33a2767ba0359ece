package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/revstat/revstat/pkg/mcp"
)

// integrationCSV is a one-week fixture with a three-day mid-week gap.
const integrationCSV = `Date,Learning,Review,Relearn,Cheated
2025-07-07,10,30,2,0
2025-07-08,0,25,0,0
2025-07-09,5,40,1,3
2025-07-10,0,0,0,0
2025-07-11,0,0,0,0
2025-07-12,0,0,0,0
2025-07-13,0,55,0,0
`

// writeIntegrationDataset writes the fixture CSV and returns its path.
func writeIntegrationDataset(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte(integrationCSV), 0o600))

	return path
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Start server in background.
	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	// Create client and connect.
	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer func() {
		_ = session.Close()
	}()

	// List tools.
	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
	}

	assert.Contains(t, toolNames, "review_summary")
	assert.Contains(t, toolNames, "review_streaks")
	assert.Contains(t, toolNames, "review_gaps")
	assert.Contains(t, toolNames, "review_periods")
	assert.Contains(t, toolNames, "review_stages")
	assert.Len(t, toolNames, 5)

	// Verify each tool has an input schema.
	for _, tool := range toolsResult.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	cancel()
	<-serverDone
}

func TestMCPServer_InMemoryTransport_CallSummary(t *testing.T) {
	t.Parallel()

	path := writeIntegrationDataset(t)

	srv := mcp.NewServer(mcp.ServerDeps{})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer func() {
		_ = session.Close()
	}()

	// Call review_summary against the fixture dataset.
	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "review_summary",
		Arguments: map[string]any{
			"path": path,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var report struct {
		Policy  string `json:"policy"`
		Summary struct {
			TotalDays  int `json:"total_days"`
			ActiveDays int `json:"active_days"`
		} `json:"summary"`
	}

	require.NoError(t, json.Unmarshal([]byte(text.Text), &report))
	assert.Equal(t, "honest", report.Policy)
	assert.Equal(t, 7, report.Summary.TotalDays)
	assert.Equal(t, 4, report.Summary.ActiveDays)

	cancel()
	<-serverDone
}

func TestMCPServer_InMemoryTransport_CallGaps(t *testing.T) {
	t.Parallel()

	path := writeIntegrationDataset(t)

	srv := mcp.NewServer(mcp.ServerDeps{})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer func() {
		_ = session.Close()
	}()

	// Call review_gaps with a lowered minimum so the fixture gap reports.
	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "review_gaps",
		Arguments: map[string]any{
			"path":         path,
			"min_gap_days": 2,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var report struct {
		MinGapDays int `json:"min_gap_days"`
		Count      int `json:"count"`
		Gaps       []struct {
			Start      string `json:"start_date"`
			End        string `json:"end_date"`
			LengthDays int    `json:"length_days"`
		} `json:"gaps"`
	}

	require.NoError(t, json.Unmarshal([]byte(text.Text), &report))
	assert.Equal(t, 2, report.MinGapDays)
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "2025-07-10", report.Gaps[0].Start)
	assert.Equal(t, "2025-07-12", report.Gaps[0].End)
	assert.Equal(t, 3, report.Gaps[0].LengthDays)

	cancel()
	<-serverDone
}

func TestMCPServer_InMemoryTransport_CallStages(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer func() {
		_ = session.Close()
	}()

	// Call review_stages, the only tool that needs no dataset.
	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "review_stages",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var report struct {
		Count  int `json:"count"`
		Stages []struct {
			Name string `json:"name"`
		} `json:"stages"`
	}

	require.NoError(t, json.Unmarshal([]byte(text.Text), &report))
	assert.Equal(t, 10, report.Count)
	require.Len(t, report.Stages, 10)
	assert.Equal(t, "calendar", report.Stages[0].Name)
	assert.Equal(t, "summary", report.Stages[9].Name)

	cancel()
	<-serverDone
}

func TestMCPServer_InMemoryTransport_CallSummary_Error(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer func() {
		_ = session.Close()
	}()

	// Call review_summary with an empty path.
	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "review_summary",
		Arguments: map[string]any{
			"path": "",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	cancel()
	<-serverDone
}
