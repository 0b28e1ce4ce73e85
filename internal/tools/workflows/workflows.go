// Package workflows exposes workflow introspection and activation as tools,
// so a client can grow its own tool list at runtime.
package workflows

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/manifest"
	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

// Controller is the slice of the activation engine these tools need.
type Controller interface {
	EnableWorkflows(ctx context.Context, names []string, additive bool) error
	EnabledWorkflows() []string
	IsWorkflowEnabled(id string) bool
	Manifest() *manifest.Manifest
}

func Bundle(ctrl Controller) *tools.Bundle {
	return &tools.Bundle{
		Module: "workflows",
		Tools: []tools.Tool{
			{
				ID: "listWorkflows",
				Def: mcp.NewTool("list_workflows",
					mcp.WithDescription("List available workflows and whether each is currently enabled."),
				),
				Handler: listHandler(ctrl),
			},
			{
				ID: "enableWorkflows",
				Def: mcp.NewTool("enable_workflows",
					mcp.WithDescription("Enable additional workflows so their tools become available. "+
						"With replace=true the requested set replaces the currently enabled one. "+
						"Available workflows:\n"+ctrl.Manifest().WorkflowDescriptions()),
					mcp.WithArray("workflows", mcp.Required(),
						mcp.Description("Workflow ids to enable"),
						mcp.Items(map[string]any{"type": "string"})),
					mcp.WithBoolean("replace",
						mcp.Description("Replace the enabled set instead of adding to it (default false)")),
				),
				Handler: enableHandler(ctrl),
			},
		},
	}
}

func listHandler(ctrl Controller) tools.Handler {
	return func(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
		m := ctrl.Manifest()
		var b strings.Builder
		for _, wid := range m.WorkflowIDs() {
			w := m.Workflows[wid]
			state := "disabled"
			if ctrl.IsWorkflowEnabled(wid) {
				state = "enabled"
			}
			fmt.Fprintf(&b, "%s [%s] (%d tools): %s\n", wid, state, len(w.Tools), w.Description)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func enableHandler(ctrl Controller) tools.Handler {
	return func(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
		names := req.GetStringSlice("workflows", nil)
		if len(names) == 0 {
			return mcp.NewToolResultError("workflows must name at least one workflow"), nil
		}

		m := ctrl.Manifest()
		var unknown []string
		for _, n := range names {
			if _, ok := m.Workflows[n]; !ok {
				unknown = append(unknown, n)
			}
		}

		additive := !req.GetBool("replace", false)
		if err := ctrl.EnableWorkflows(ctx, names, additive); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("enabling workflows failed: %v", err)), nil
		}

		msg := fmt.Sprintf("Enabled workflows: %s", strings.Join(ctrl.EnabledWorkflows(), ", "))
		if len(unknown) > 0 {
			msg += fmt.Sprintf("\nUnknown workflows skipped: %s", strings.Join(unknown, ", "))
		}
		return mcp.NewToolResultText(msg), nil
	}
}
