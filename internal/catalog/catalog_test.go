package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcmcp/xcmcp/internal/manifest"
)

type nullController struct{ m *manifest.Manifest }

func (c *nullController) EnableWorkflows(ctx context.Context, names []string, additive bool) error {
	return nil
}
func (c *nullController) EnabledWorkflows() []string       { return nil }
func (c *nullController) IsWorkflowEnabled(id string) bool { return false }
func (c *nullController) Manifest() *manifest.Manifest     { return c.m }

// Every tool the manifest declares must resolve to a concrete definition
// in its module's bundle, under its declared wire name.
func TestManifestAndCatalogAgree(t *testing.T) {
	m, err := manifest.Default()
	require.NoError(t, err)

	loaders := Loaders(&nullController{m: m})

	for _, id := range m.ToolIDs() {
		entry := m.Tools[id]

		load, ok := loaders[entry.Module]
		require.True(t, ok, "tool %s: no loader for module %s", id, entry.Module)

		bundle, err := load()
		require.NoError(t, err, "module %s", entry.Module)
		assert.Equal(t, entry.Module, bundle.Module)

		tool := bundle.Find(id)
		require.NotNil(t, tool, "tool %s missing from module %s", id, entry.Module)
		assert.Equal(t, entry.Names.MCP, tool.Def.Name, "tool %s wire name mismatch", id)
		assert.NotNil(t, tool.Handler, "tool %s has no handler", id)
	}
}

// The reverse direction: bundles must not ship tools the manifest does not
// declare.
func TestNoUndeclaredTools(t *testing.T) {
	m, err := manifest.Default()
	require.NoError(t, err)

	declared := make(map[string]bool)
	for _, id := range m.ToolIDs() {
		declared[id] = true
	}

	for module, load := range Loaders(&nullController{m: m}) {
		bundle, err := load()
		require.NoError(t, err)
		for _, tool := range bundle.Tools {
			assert.True(t, declared[tool.ID], "module %s ships undeclared tool %s", module, tool.ID)
		}
	}
}

func TestDescriptions(t *testing.T) {
	m, err := manifest.Default()
	require.NoError(t, err)

	desc := Descriptions(m)
	assert.Contains(t, desc, "- **build_sim**:")
	assert.Contains(t, desc, "- **enable_workflows**:")
}
