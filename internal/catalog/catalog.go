// Package catalog wires the tool modules to the manifest: it owns the
// module loader table the activation engine draws from, and renders the
// human-readable tool summary used in the server instructions.
package catalog

import (
	"fmt"
	"strings"

	"github.com/xcmcp/xcmcp/internal/manifest"
	"github.com/xcmcp/xcmcp/internal/tools"
	"github.com/xcmcp/xcmcp/internal/tools/build"
	"github.com/xcmcp/xcmcp/internal/tools/discovery"
	"github.com/xcmcp/xcmcp/internal/tools/doctor"
	"github.com/xcmcp/xcmcp/internal/tools/macos"
	"github.com/xcmcp/xcmcp/internal/tools/scaffold"
	"github.com/xcmcp/xcmcp/internal/tools/simulator"
	"github.com/xcmcp/xcmcp/internal/tools/ui"
	"github.com/xcmcp/xcmcp/internal/tools/workflows"
)

// Loaders returns the loader table for every tool module. The workflows
// module needs the activation engine back, hence the controller argument.
func Loaders(ctrl workflows.Controller) map[string]tools.Loader {
	wrap := func(b func() *tools.Bundle) tools.Loader {
		return func() (*tools.Bundle, error) { return b(), nil }
	}
	return map[string]tools.Loader{
		"discovery": wrap(discovery.Bundle),
		"simulator": wrap(simulator.Bundle),
		"build":     wrap(build.Bundle),
		"macos":     wrap(macos.Bundle),
		"ui":        wrap(ui.Bundle),
		"scaffold":  wrap(scaffold.Bundle),
		"doctor":    wrap(doctor.Bundle),
		"workflows": func() (*tools.Bundle, error) { return workflows.Bundle(ctrl), nil },
	}
}

// Descriptions renders one bullet per manifest tool, in declaration order.
// The server hands this to clients as part of its instructions so models
// know what is available before enabling workflows.
func Descriptions(m *manifest.Manifest) string {
	var b strings.Builder
	for _, id := range m.ToolIDs() {
		t := m.Tools[id]
		if !t.ExposedViaMCP() {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", t.Names.MCP, t.Description)
	}
	return b.String()
}
