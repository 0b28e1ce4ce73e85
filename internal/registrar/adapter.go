package registrar

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

// Adapt converts a module handler into the host's handler shape. The
// command runner is resolved per call, not captured at wrap time, so a
// runner installed later (a test fake, typically) still takes effect.
func Adapt(h tools.Handler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h(ctx, req, runner.Default())
	}
}
