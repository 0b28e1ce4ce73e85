package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcmcp/xcmcp/internal/runner"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestContainerArgs(t *testing.T) {
	assert.Equal(t, []string{"-project", "/a/App.xcodeproj"}, ContainerArgs("/a/App.xcodeproj"))
	assert.Equal(t, []string{"-workspace", "/a/App.xcworkspace"}, ContainerArgs("/a/App.xcworkspace"))
}

func TestDiscoverProjs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "App", "App.xcodeproj"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "App", "App.xcodeproj", "project.xcworkspace"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Suite", "Suite.xcworkspace"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unrelated"), 0755))

	fake := &runner.FakeCommandRunner{}
	req := callRequest("discover_projs", map[string]any{"workspace_root": root})

	res, err := handleDiscoverProjs(context.Background(), req, fake)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, "App.xcodeproj")
	assert.Contains(t, text, "Suite.xcworkspace")
	assert.NotContains(t, text, "project.xcworkspace", "workspace inside a project bundle is not top-level")
	assert.Empty(t, fake.Calls, "discovery walks the filesystem, no commands")
}

func TestListSchemes(t *testing.T) {
	fake := &runner.FakeCommandRunner{Output: `{"project": {"schemes": ["App"]}}`}
	req := callRequest("list_schemes", map[string]any{"project_path": "/a/App.xcworkspace"})

	res, err := handleListSchemes(context.Background(), req, fake)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"xcodebuild", "-list", "-json", "-workspace", "/a/App.xcworkspace"},
		fake.LastCall().Args)
}
