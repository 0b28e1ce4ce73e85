// Package manifest loads and validates the declarative tool/workflow
// manifest the catalog is generated from.
package manifest

import (
	"fmt"
	"strings"
)

// Names holds the protocol-facing and CLI-facing names of a tool.
// MCP is required; CLI falls back to DeriveCLIName(MCP) when absent.
type Names struct {
	MCP string `yaml:"mcp"`
	CLI string `yaml:"cli,omitempty"`
}

// Availability controls which surfaces expose a tool. Absent flags default
// to true. The daemon flag belongs to a deployment mode this server does
// not support; its presence is a validation error, not a silent ignore.
type Availability struct {
	MCP    *bool `yaml:"mcp"`
	CLI    *bool `yaml:"cli"`
	Daemon *bool `yaml:"daemon"`
}

// Routing holds per-tool dispatch hints. DaemonAffinity is reserved for
// daemon deployments and rejected here.
type Routing struct {
	Stateful       bool    `yaml:"stateful"`
	DaemonAffinity *string `yaml:"daemon_affinity"`
}

// ToolEntry is one declarative tool record.
type ToolEntry struct {
	ID           string        `yaml:"id"`
	Module       string        `yaml:"module"`
	Names        Names         `yaml:"names"`
	Description  string        `yaml:"description"`
	Availability *Availability `yaml:"availability"`
	Predicates   []string      `yaml:"predicates"`
	Routing      *Routing      `yaml:"routing"`
}

// ExposedViaMCP reports whether the tool is served over the protocol.
func (t ToolEntry) ExposedViaMCP() bool {
	return t.Availability == nil || t.Availability.MCP == nil || *t.Availability.MCP
}

// ExposedViaCLI reports whether the tool is exposed as a CLI command.
func (t ToolEntry) ExposedViaCLI() bool {
	return t.Availability == nil || t.Availability.CLI == nil || *t.Availability.CLI
}

// EffectiveCLIName returns the explicit CLI name when present, otherwise
// the name derived from the MCP name.
func (t ToolEntry) EffectiveCLIName() string {
	if t.Names.CLI != "" {
		return t.Names.CLI
	}
	return DeriveCLIName(t.Names.MCP)
}

// SelectionMCP is the protocol-side selection policy of a workflow.
type SelectionMCP struct {
	DefaultEnabled bool `yaml:"default_enabled"`
	AutoInclude    bool `yaml:"auto_include"`
}

// Selection wraps per-surface selection policies.
type Selection struct {
	MCP SelectionMCP `yaml:"mcp"`
}

// WorkflowEntry is one declarative workflow record. Tools is an ordered
// list of tool ids; the schema permits an empty list.
type WorkflowEntry struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Tools       []string   `yaml:"tools"`
	Selection   *Selection `yaml:"selection"`
	Predicates  []string   `yaml:"predicates"`
}

// DefaultEnabled reports whether the workflow activates at startup.
func (w WorkflowEntry) DefaultEnabled() bool {
	return w.Selection != nil && w.Selection.MCP.DefaultEnabled
}

// AutoInclude reports whether the workflow rides along with every
// explicit activation request.
func (w WorkflowEntry) AutoInclude() bool {
	return w.Selection != nil && w.Selection.MCP.AutoInclude
}

// Manifest is the validated aggregate of all tool and workflow entries.
// Built once per process; read-only afterwards.
type Manifest struct {
	Tools     map[string]ToolEntry
	Workflows map[string]WorkflowEntry

	toolOrder     []string
	workflowOrder []string
}

// ToolIDs returns tool ids in declaration order.
func (m *Manifest) ToolIDs() []string {
	ids := make([]string, len(m.toolOrder))
	copy(ids, m.toolOrder)
	return ids
}

// WorkflowIDs returns workflow ids in declaration order.
func (m *Manifest) WorkflowIDs() []string {
	ids := make([]string, len(m.workflowOrder))
	copy(ids, m.workflowOrder)
	return ids
}

// WorkflowDescriptions renders one bullet per workflow, upper-cased name
// first, in declaration order. Used in tool descriptions so clients see
// what they can enable.
func (m *Manifest) WorkflowDescriptions() string {
	var b strings.Builder
	for _, wid := range m.workflowOrder {
		w := m.Workflows[wid]
		fmt.Fprintf(&b, "- **%s**: %s\n", strings.ToUpper(w.ID), w.Description)
	}
	return b.String()
}

// WorkflowTools returns the resolved tool list for one workflow, or an
// empty slice when the workflow id is unknown (not an error).
func (m *Manifest) WorkflowTools(workflowID string) []ToolEntry {
	w, ok := m.Workflows[workflowID]
	if !ok {
		return []ToolEntry{}
	}
	tools := make([]ToolEntry, 0, len(w.Tools))
	for _, id := range w.Tools {
		tools = append(tools, m.Tools[id])
	}
	return tools
}

// ToolsForWorkflows returns the union of the tool lists of the given
// workflows, de-duplicated by tool id, preserving first-seen order.
// Unknown workflow ids contribute nothing.
func (m *Manifest) ToolsForWorkflows(workflowIDs []string) []ToolEntry {
	seen := make(map[string]bool)
	tools := []ToolEntry{}
	for _, wid := range workflowIDs {
		for _, t := range m.WorkflowTools(wid) {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			tools = append(tools, t)
		}
	}
	return tools
}

// SchemaError is a single per-entry validation error.
type SchemaError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError is a fatal manifest-level error, optionally carrying the
// source file it originated from.
type ValidationError struct {
	Message    string
	SourceFile string
}

func (e *ValidationError) Error() string {
	if e.SourceFile == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (in %s)", e.Message, e.SourceFile)
}
