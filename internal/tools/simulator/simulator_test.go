package simulator

import (
	"context"
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

func TestListSims(t *testing.T) {
	fake := &runner.FakeCommandRunner{Output: `{"devices": {}}`}

	res, err := handleListSims(context.Background(), callRequest("list_sims", nil), fake)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"xcrun", "simctl", "list", "devices", "available", "--json"},
		fake.LastCall().Args)
}

func TestBootSim(t *testing.T) {
	fake := &runner.FakeCommandRunner{}
	req := callRequest("boot_sim", map[string]any{"simulator_uuid": "ABC-123"})

	res, err := handleBootSim(context.Background(), req, fake)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"xcrun", "simctl", "boot", "ABC-123"}, fake.LastCall().Args)
}

func TestBootSimAlreadyBooted(t *testing.T) {
	fake := &runner.FakeCommandRunner{
		Output: "Unable to boot device in current state: Booted",
		ErrStr: "exit status 149",
	}
	req := callRequest("boot_sim", map[string]any{"simulator_uuid": "ABC-123"})

	res, err := handleBootSim(context.Background(), req, fake)
	require.NoError(t, err)
	assert.False(t, res.IsError, "booting a booted simulator is not an error")
}

func TestInstallAppSim(t *testing.T) {
	fake := &runner.FakeCommandRunner{}
	req := callRequest("install_app_sim", map[string]any{
		"simulator_uuid": "ABC-123",
		"app_path":       "/tmp/App.app",
	})

	res, err := handleInstallAppSim(context.Background(), req, fake)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"xcrun", "simctl", "install", "ABC-123", "/tmp/App.app"},
		fake.LastCall().Args)
}

func TestStopAppSimMissingBundleID(t *testing.T) {
	fake := &runner.FakeCommandRunner{}
	req := callRequest("stop_app_sim", map[string]any{"simulator_uuid": "ABC-123"})

	res, err := handleStopAppSim(context.Background(), req, fake)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, fake.Calls)
}
