package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/revstat/revstat/pkg/analytics"
)

// StagesReport is the structured output of the review_stages tool.
type StagesReport struct {
	Count  int                   `json:"count"`
	Stages []analytics.StageInfo `json:"stages"`
}

// HandleStages processes a review_stages call. It needs no dataset: the
// stage catalog describes the pipeline itself, in execution order.
func (t *Tools) HandleStages(_ context.Context, _ *mcpsdk.CallToolRequest, _ StagesInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	stages := analytics.StageCatalog()

	return jsonResult(StagesReport{
		Count:  len(stages),
		Stages: stages,
	})
}
