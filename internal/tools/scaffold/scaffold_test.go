package scaffold

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

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestScaffoldIosProject(t *testing.T) {
	out := t.TempDir()
	fake := &runner.FakeCommandRunner{}
	handler := scaffoldHandler("iOS", "17.0")

	res, err := handler(context.Background(), callRequest(map[string]any{
		"project_name": "Demo",
		"output_path":  out,
	}), fake)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	spec, err := os.ReadFile(filepath.Join(out, "Demo", "project.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(spec), "name: Demo")
	assert.Contains(t, string(spec), "platform: iOS")
	assert.Contains(t, string(spec), "com.example.demo")

	app, err := os.ReadFile(filepath.Join(out, "Demo", "Sources", "DemoApp.swift"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "struct DemoApp: App")

	require.NotNil(t, fake.LastCall())
	assert.Equal(t, "xcodegen", fake.LastCall().Args[0])
}

func TestScaffoldWithoutXcodegenStillSucceeds(t *testing.T) {
	out := t.TempDir()
	fake := &runner.FakeCommandRunner{ErrStr: "exec: xcodegen: not found"}
	handler := scaffoldHandler("macOS", "14.0")

	res, err := handler(context.Background(), callRequest(map[string]any{
		"project_name":      "Tool",
		"output_path":       out,
		"bundle_identifier": "dev.example.tool",
	}), fake)
	require.NoError(t, err)
	assert.False(t, res.IsError, "the generated spec tree alone is a usable result")

	spec, err := os.ReadFile(filepath.Join(out, "Tool", "project.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(spec), "dev.example.tool")
}

func TestScaffoldRejectsExistingDirectory(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "Demo"), 0755))

	handler := scaffoldHandler("iOS", "17.0")
	res, err := handler(context.Background(), callRequest(map[string]any{
		"project_name": "Demo",
		"output_path":  out,
	}), &runner.FakeCommandRunner{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestScaffoldRejectsBadName(t *testing.T) {
	handler := scaffoldHandler("iOS", "17.0")
	res, err := handler(context.Background(), callRequest(map[string]any{
		"project_name": "../evil",
		"output_path":  t.TempDir(),
	}), &runner.FakeCommandRunner{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
