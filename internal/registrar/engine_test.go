package registrar

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcmcp/xcmcp/internal/manifest"
	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

// bulkHost supports batch add, delete and notification, like the real
// server does.
type bulkHost struct {
	added         []server.ServerTool
	addCalls      int
	deleted       []string
	notifications int
}

func (h *bulkHost) AddTools(ts ...server.ServerTool) {
	h.added = append(h.added, ts...)
	h.addCalls++
}

func (h *bulkHost) DeleteTools(names ...string) {
	h.deleted = append(h.deleted, names...)
}

func (h *bulkHost) SendNotificationToAllClients(method string, params map[string]any) {
	h.notifications++
}

// singleHost can only add one tool at a time but can still notify.
type singleHost struct {
	added         []mcp.Tool
	notifications int
}

func (h *singleHost) AddTool(t mcp.Tool, _ server.ToolHandlerFunc) {
	h.added = append(h.added, t)
}

func (h *singleHost) SendNotificationToAllClients(method string, params map[string]any) {
	h.notifications++
}

// legacyHost exposes only the old name/description registration call.
type legacyHost struct {
	names []string
}

func (h *legacyHost) RegisterTool(name, description string, _ server.ToolHandlerFunc) {
	h.names = append(h.names, name)
}

const testManifest = `
tools:
  - id: buildSim
    module: build
    names:
      mcp: build_sim
    description: Build for the simulator.
  - id: testSim
    module: build
    names:
      mcp: test_sim
    description: Test on the simulator.
  - id: listSims
    module: simulator
    names:
      mcp: list_sims
    description: List simulators.
  - id: hiddenTool
    module: build
    names:
      mcp: hidden_tool
    availability:
      mcp: false
    description: CLI only.
workflows:
  - id: build
    title: Build
    description: Build tools.
    tools: [buildSim, testSim, hiddenTool]
  - id: simulator
    title: Simulator
    description: Simulator tools.
    tools: [listSims, buildSim]
  - id: broken
    title: Broken
    description: Module fails to load.
    tools: [testSim]
`

func testManifestWith(t *testing.T, extra string) *manifest.Manifest {
	t.Helper()
	fsys := fstest.MapFS{
		"manifest.yaml": &fstest.MapFile{Data: []byte(testManifest + extra)},
	}
	m, err := manifest.Load(fsys)
	require.NoError(t, err)
	return m
}

func echoHandler(id string) tools.Handler {
	return func(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(id), nil
	}
}

func buildBundle() (*tools.Bundle, error) {
	return &tools.Bundle{
		Module: "build",
		Tools: []tools.Tool{
			{ID: "buildSim", Def: mcp.NewTool("build_sim"), Handler: echoHandler("buildSim")},
			{ID: "testSim", Def: mcp.NewTool("test_sim"), Handler: echoHandler("testSim")},
			{ID: "hiddenTool", Def: mcp.NewTool("hidden_tool"), Handler: echoHandler("hiddenTool")},
		},
	}, nil
}

func simulatorBundle() (*tools.Bundle, error) {
	return &tools.Bundle{
		Module: "simulator",
		Tools: []tools.Tool{
			{ID: "listSims", Def: mcp.NewTool("list_sims"), Handler: echoHandler("listSims")},
		},
	}, nil
}

func newTestEngine(t *testing.T, host any) *Engine {
	t.Helper()
	m := testManifestWith(t, "")
	handle, err := NewHandle(host)
	require.NoError(t, err)
	e := NewEngine(m, handle)
	e.SetLoaders(map[string]tools.Loader{
		"build":     buildBundle,
		"simulator": simulatorBundle,
	})
	return e
}

func TestEnableWorkflowsBulkHost(t *testing.T) {
	host := &bulkHost{}
	e := newTestEngine(t, host)

	err := e.EnableWorkflows(context.Background(), []string{"build"}, true)
	require.NoError(t, err)

	names := make([]string, len(host.added))
	for i, st := range host.added {
		names[i] = st.Tool.Name
	}
	assert.Equal(t, []string{"build_sim", "test_sim"}, names, "MCP-unavailable tool must be skipped")
	assert.Equal(t, 1, host.addCalls)
	// The bulk path notifies on the host side; no extra notification.
	assert.Equal(t, 0, host.notifications)
	assert.Equal(t, []string{"build"}, e.EnabledWorkflows())
}

func TestEnableWorkflowsIdempotent(t *testing.T) {
	host := &bulkHost{}
	e := newTestEngine(t, host)

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))
	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))

	assert.Len(t, host.added, 2, "second activation must not re-register")
	assert.Equal(t, []string{"build"}, e.EnabledWorkflows())
	// First call notified through the bulk add; the second, which added
	// nothing, still notifies exactly once.
	assert.Equal(t, 1, host.notifications)
}

func TestEnableWorkflowsDeduplicatesAcrossRequest(t *testing.T) {
	host := &bulkHost{}
	e := newTestEngine(t, host)

	// buildSim appears in both workflows; it must register once.
	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build", "simulator"}, true))

	names := make([]string, len(host.added))
	for i, st := range host.added {
		names[i] = st.Tool.Name
	}
	assert.Equal(t, []string{"build_sim", "test_sim", "list_sims"}, names)
	assert.Equal(t, []string{"build", "simulator"}, e.EnabledWorkflows())
}

func TestEnableWorkflowsReplaceMode(t *testing.T) {
	host := &bulkHost{}
	e := newTestEngine(t, host)

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))
	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"simulator"}, false))

	assert.ElementsMatch(t, []string{"build_sim", "test_sim"}, host.deleted)
	assert.Equal(t, []string{"simulator"}, e.EnabledWorkflows())
	assert.True(t, e.tracker.IsToolRegistered("list_sims"))
	assert.True(t, e.tracker.IsToolRegistered("build_sim"), "simulator workflow re-registers the shared tool")
	assert.False(t, e.tracker.IsToolRegistered("test_sim"))
}

func TestEnableWorkflowsReplaceWithoutDeleter(t *testing.T) {
	host := &singleHost{}
	e := newTestEngine(t, host)

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))
	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"simulator"}, false))

	// The host keeps the stale tools but the tracker must be truthful.
	assert.Equal(t, []string{"simulator"}, e.EnabledWorkflows())
	assert.False(t, e.tracker.IsToolRegistered("test_sim"))
}

func TestEnableWorkflowsSingleHostNotifiesOnce(t *testing.T) {
	host := &singleHost{}
	e := newTestEngine(t, host)

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build", "simulator"}, true))

	assert.Len(t, host.added, 3)
	assert.Equal(t, 1, host.notifications)
}

func TestEnableWorkflowsLegacyHost(t *testing.T) {
	host := &legacyHost{}
	e := newTestEngine(t, host)

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))
	assert.Equal(t, []string{"build_sim", "test_sim"}, host.names)
}

func TestEnableWorkflowsUnknownWorkflowSkipped(t *testing.T) {
	host := &bulkHost{}
	e := newTestEngine(t, host)

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"nope", "build"}, true))

	assert.Len(t, host.added, 2, "known workflow still activates")
	assert.Equal(t, []string{"build"}, e.EnabledWorkflows())
}

func TestEnableWorkflowsLoaderFailure(t *testing.T) {
	host := &bulkHost{}
	m := testManifestWith(t, "")
	handle, err := NewHandle(host)
	require.NoError(t, err)
	e := NewEngine(m, handle)
	e.SetLoaders(map[string]tools.Loader{
		"build": func() (*tools.Bundle, error) { return nil, errors.New("boom") },
	})

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))

	assert.Empty(t, host.added)
	// Every tool failed to load, so the workflow did not activate.
	assert.Empty(t, e.EnabledWorkflows())
}

func TestEnableWorkflowsMalformedToolSkipped(t *testing.T) {
	host := &bulkHost{}
	m := testManifestWith(t, "")
	handle, err := NewHandle(host)
	require.NoError(t, err)
	e := NewEngine(m, handle)
	e.SetLoaders(map[string]tools.Loader{
		"build": func() (*tools.Bundle, error) {
			return &tools.Bundle{
				Module: "build",
				Tools: []tools.Tool{
					{ID: "buildSim", Def: mcp.NewTool("build_sim"), Handler: echoHandler("buildSim")},
				},
			}, nil
		},
	})

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))

	require.Len(t, host.added, 1)
	assert.Equal(t, "build_sim", host.added[0].Tool.Name)
}

func TestEnableWorkflowsAutoInclude(t *testing.T) {
	host := &bulkHost{}
	m := testManifestWith(t, `
  - id: always
    title: Always
    description: Rides along with every request.
    selection:
      mcp:
        auto_include: true
    tools: [listSims]
`)
	handle, err := NewHandle(host)
	require.NoError(t, err)
	e := NewEngine(m, handle)
	e.SetLoaders(map[string]tools.Loader{
		"build":     buildBundle,
		"simulator": simulatorBundle,
	})

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))

	assert.Equal(t, []string{"build", "always"}, e.EnabledWorkflows())
	assert.True(t, e.tracker.IsToolRegistered("list_sims"))
}

func TestEnableDefaults(t *testing.T) {
	host := &bulkHost{}
	m := testManifestWith(t, `
  - id: starter
    title: Starter
    description: On by default.
    selection:
      mcp:
        default_enabled: true
    tools: [listSims]
`)
	handle, err := NewHandle(host)
	require.NoError(t, err)
	e := NewEngine(m, handle)
	e.SetLoaders(map[string]tools.Loader{"simulator": simulatorBundle})

	require.NoError(t, e.EnableDefaults(context.Background()))
	assert.Equal(t, []string{"starter"}, e.EnabledWorkflows())
}

func TestEngineReadOperations(t *testing.T) {
	e := newTestEngine(t, &bulkHost{})

	assert.Equal(t, []string{"build", "simulator", "broken"}, e.AvailableWorkflows())
	assert.Contains(t, e.WorkflowDescriptions(), "- **BUILD**: Build tools.")
	assert.False(t, e.IsWorkflowEnabled("build"))

	require.NoError(t, e.EnableWorkflows(context.Background(), []string{"build"}, true))
	assert.True(t, e.IsWorkflowEnabled("build"))
}

func TestEnableWorkflowsNilHandle(t *testing.T) {
	m := testManifestWith(t, "")
	e := NewEngine(m, nil)
	err := e.EnableWorkflows(context.Background(), []string{"build"}, true)
	assert.ErrorIs(t, err, ErrNilHandle)
}

func TestNewHandleRequiresRegistration(t *testing.T) {
	_, err := NewHandle(struct{}{})
	assert.ErrorIs(t, err, ErrNoRegistration)

	h, err := NewHandle(&legacyHost{})
	require.NoError(t, err)
	assert.False(t, h.CanDelete())
}

func TestAdaptResolvesRunnerPerCall(t *testing.T) {
	var got runner.CommandRunner
	h := Adapt(func(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
		got = run
		return mcp.NewToolResultText("ok"), nil
	})

	fake := &runner.FakeCommandRunner{Output: "out"}
	prev := runner.SetDefault(fake)
	defer runner.SetDefault(prev)

	_, err := h(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Same(t, fake, got, "fake installed after wrapping must be used")
}
