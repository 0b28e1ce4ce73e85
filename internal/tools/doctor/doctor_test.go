package doctor

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcmcp/xcmcp/internal/runner"
)

func TestDoctorHealthy(t *testing.T) {
	fake := &runner.FakeCommandRunner{Output: "/Applications/Xcode.app/Contents/Developer"}

	res, err := handleDoctor(context.Background(), mcp.CallToolRequest{}, fake)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "Toolchain looks healthy")
	assert.Len(t, fake.Calls, len(checks))
}

func TestDoctorMissingRequired(t *testing.T) {
	fake := &runner.FakeCommandRunner{ErrStr: "exec: not found"}

	res, err := handleDoctor(context.Background(), mcp.CallToolRequest{}, fake)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
