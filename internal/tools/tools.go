// Package tools defines the shape a tool module exports: concrete tool
// definitions paired with handlers that take an injected command runner.
// Subpackages hold the actual modules; the catalog package assembles them.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xcmcp/xcmcp/internal/runner"
)

// Handler is a tool implementation. The runner argument is the only way a
// handler may execute external commands.
type Handler func(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error)

// Tool pairs a protocol-level tool definition with its handler. ID matches
// the tool's manifest id, not its wire name.
type Tool struct {
	ID      string
	Def     mcp.Tool
	Handler Handler
}

// Bundle is everything one tool module exports.
type Bundle struct {
	Module string
	Tools  []Tool
}

// Find returns the tool with the given id, or nil.
func (b *Bundle) Find(id string) *Tool {
	for i := range b.Tools {
		if b.Tools[i].ID == id {
			return &b.Tools[i]
		}
	}
	return nil
}

// Loader produces a module's bundle on first use. Construction of tool
// definitions is deferred until a workflow referencing the module is
// enabled.
type Loader func() (*Bundle, error)
