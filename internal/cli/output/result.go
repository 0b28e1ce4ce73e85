package output

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// CallResult wraps a tool result for rendering.
type CallResult struct {
	Raw *mcp.CallToolResult
}

func NewCallResult(raw *mcp.CallToolResult) *CallResult {
	return &CallResult{Raw: raw}
}

func (r *CallResult) Text(joiner string) string {
	var parts []string
	for _, c := range r.Raw.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, joiner)
}

func (r *CallResult) JSON() (string, error) {
	data, err := json.MarshalIndent(r.Raw, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *CallResult) IsError() bool {
	return r.Raw.IsError
}
