package manifest

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data
var embedded embed.FS

// manifestFile is the on-disk shape of a single manifest YAML file. A file
// may declare tools, workflows, or both.
type manifestFile struct {
	Tools     []ToolEntry     `yaml:"tools"`
	Workflows []WorkflowEntry `yaml:"workflows"`
}

var (
	idPattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	mcpNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// ValidateToolEntry checks one tool record against the schema rules.
func ValidateToolEntry(t ToolEntry) []SchemaError {
	var errs []SchemaError

	if t.ID == "" {
		errs = append(errs, SchemaError{"id", "required field is missing"})
	} else if !idPattern.MatchString(t.ID) {
		errs = append(errs, SchemaError{"id", "must be letters, numbers, hyphens and underscores, starting with a letter"})
	}
	if t.Module == "" {
		errs = append(errs, SchemaError{"module", "required field is missing"})
	}
	if t.Names.MCP == "" {
		errs = append(errs, SchemaError{"names.mcp", "required field is missing"})
	} else if !mcpNamePattern.MatchString(t.Names.MCP) {
		errs = append(errs, SchemaError{"names.mcp", "must be snake_case (lowercase letters, numbers, underscores)"})
	}

	// Daemon-mode fields are not valid in this deployment; flag them
	// instead of ignoring so stale manifests are caught at load time.
	if t.Availability != nil && t.Availability.Daemon != nil {
		errs = append(errs, SchemaError{"availability.daemon", "daemon availability is not supported in this deployment"})
	}
	if t.Routing != nil && t.Routing.DaemonAffinity != nil {
		errs = append(errs, SchemaError{"routing.daemon_affinity", "daemon routing is not supported in this deployment"})
	}

	return errs
}

// ValidateWorkflowEntry checks one workflow record against the schema rules.
func ValidateWorkflowEntry(w WorkflowEntry) []SchemaError {
	var errs []SchemaError

	if w.ID == "" {
		errs = append(errs, SchemaError{"id", "required field is missing"})
	} else if !idPattern.MatchString(w.ID) {
		errs = append(errs, SchemaError{"id", "must be letters, numbers, hyphens and underscores, starting with a letter"})
	}
	if w.Title == "" {
		errs = append(errs, SchemaError{"title", "required field is missing"})
	}
	if w.Description == "" {
		errs = append(errs, SchemaError{"description", "required field is missing"})
	}

	return errs
}

// Load reads every .yaml file in fsys (sorted by name), validates each
// entry, then validates cross-references over the whole set. Any violation
// is fatal: no partial manifest is ever returned.
func Load(fsys fs.FS) (*Manifest, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	yml, err := fs.Glob(fsys, "*.yml")
	if err != nil {
		return nil, err
	}
	files = append(files, yml...)
	sort.Strings(files)

	if len(files) == 0 {
		return nil, &ValidationError{Message: "no manifest files found"}
	}

	m := &Manifest{
		Tools:     make(map[string]ToolEntry),
		Workflows: make(map[string]WorkflowEntry),
	}
	mcpNames := make(map[string]string) // mcp name -> tool id

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &ValidationError{Message: err.Error(), SourceFile: name}
		}

		var file manifestFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("invalid YAML: %v", err), SourceFile: name}
		}

		for _, t := range file.Tools {
			if errs := ValidateToolEntry(t); len(errs) > 0 {
				return nil, &ValidationError{
					Message:    fmt.Sprintf("tool %q: %s", t.ID, joinSchemaErrors(errs)),
					SourceFile: name,
				}
			}
			if _, dup := m.Tools[t.ID]; dup {
				return nil, &ValidationError{
					Message:    fmt.Sprintf("duplicate tool id %q", t.ID),
					SourceFile: name,
				}
			}
			if owner, dup := mcpNames[t.Names.MCP]; dup {
				return nil, &ValidationError{
					Message:    fmt.Sprintf("duplicate tool name %q (tools %q and %q)", t.Names.MCP, owner, t.ID),
					SourceFile: name,
				}
			}
			mcpNames[t.Names.MCP] = t.ID
			m.Tools[t.ID] = t
			m.toolOrder = append(m.toolOrder, t.ID)
		}

		for _, w := range file.Workflows {
			if errs := ValidateWorkflowEntry(w); len(errs) > 0 {
				return nil, &ValidationError{
					Message:    fmt.Sprintf("workflow %q: %s", w.ID, joinSchemaErrors(errs)),
					SourceFile: name,
				}
			}
			if _, dup := m.Workflows[w.ID]; dup {
				return nil, &ValidationError{
					Message:    fmt.Sprintf("duplicate workflow id %q", w.ID),
					SourceFile: name,
				}
			}
			m.Workflows[w.ID] = w
			m.workflowOrder = append(m.workflowOrder, w.ID)
		}
	}

	// Cross-reference pass: every workflow tool id must resolve.
	for _, wid := range m.workflowOrder {
		w := m.Workflows[wid]
		for _, tid := range w.Tools {
			if _, ok := m.Tools[tid]; !ok {
				return nil, &ValidationError{
					Message: fmt.Sprintf("workflow %q references unknown tool %q", w.ID, tid),
				}
			}
		}
	}

	return m, nil
}

// LoadDir loads a manifest from a directory on disk.
func LoadDir(dir string) (*Manifest, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return Load(os.DirFS(dir))
}

// Default loads the manifest embedded in the binary.
func Default() (*Manifest, error) {
	return Load(EmbeddedFS())
}

// EmbeddedFS exposes the embedded manifest files, for tooling that wants
// to validate them without loading.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// The subtree is compiled in; this cannot fail at runtime.
		panic(err)
	}
	return sub
}

func joinSchemaErrors(errs []SchemaError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
