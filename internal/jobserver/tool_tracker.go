package jobserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/anatolykoptev/go_jobmatch/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobmatch/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerApplicationTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_track",
		Description: "Start tracking an application for an already ingested job by URL. Status options: saved (default), applied, interview, offer, rejected. Returns the assigned ID for future updates.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ApplicationTrackInput) (*mcp.CallToolResult, *jobs.ApplicationResult, error) {
		result, err := trackApplication(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_list",
		Description: "List tracked applications joined with their jobs. Optionally filter by status: saved, applied, interview, offer, rejected. Sorted by most recently updated.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ApplicationListInput) (*mcp.CallToolResult, *jobs.ApplicationListResult, error) {
		owner := toolutil.NormOwner(input.Owner)
		result, err := jobs.ListTrackedApplications(ctx, owner, input.Status, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "application_update",
		Description: "Update status or notes for a tracked application by ID. Status options: saved, applied, interview, offer, rejected. Get IDs from application_list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ApplicationUpdateInput) (*mcp.CallToolResult, *jobs.ApplicationResult, error) {
		result, err := updateApplication(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func trackApplication(ctx context.Context, input engine.ApplicationTrackInput) (*jobs.ApplicationResult, error) {
	if input.URL == "" {
		return nil, fmt.Errorf("url is required: %w", engine.ErrInvalidInput)
	}
	owner := toolutil.NormOwner(input.Owner)
	return jobs.TrackApplicationByURL(ctx, owner, input.URL,
		jobs.ApplicationStatus(input.Status), input.Notes)
}

func updateApplication(ctx context.Context, input engine.ApplicationUpdateInput) (*jobs.ApplicationResult, error) {
	if input.ID <= 0 {
		return nil, fmt.Errorf("id is required: %w", engine.ErrInvalidInput)
	}
	owner := toolutil.NormOwner(input.Owner)
	return jobs.UpdateTrackedApplication(ctx, owner, input.ID, input.Status, input.Notes)
}
