package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Result is the per-file outcome of validation. Unlike Load, validation
// keeps going after an error so a manifest author sees every problem in
// one run.
type Result struct {
	Valid    bool          `json:"valid"`
	Errors   []SchemaError `json:"errors,omitempty"`
	Warnings []SchemaError `json:"warnings,omitempty"`
}

func (r *Result) addError(field, message string) {
	r.Errors = append(r.Errors, SchemaError{Field: field, Message: message})
	r.Valid = false
}

func (r *Result) addWarning(field, message string) {
	r.Warnings = append(r.Warnings, SchemaError{Field: field, Message: message})
}

// ValidateFS validates every manifest file in fsys and returns one result
// per file. Cross-file problems (duplicate names, unresolved tool
// references) are attached to the file that introduced them.
func ValidateFS(fsys fs.FS) (map[string]*Result, error) {
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

	results := make(map[string]*Result)
	toolFiles := make(map[string]string) // tool id -> file
	mcpNames := make(map[string]string)  // mcp name -> tool id

	type workflowRef struct {
		file     string
		workflow string
		tool     string
	}
	var refs []workflowRef

	for _, name := range files {
		res := &Result{Valid: true}
		results[name] = res

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			res.addError("file", err.Error())
			continue
		}

		var file manifestFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			res.addError("yaml", err.Error())
			continue
		}

		for _, t := range file.Tools {
			field := fmt.Sprintf("tools[%s]", t.ID)
			for _, e := range ValidateToolEntry(t) {
				res.addError(field+"."+e.Field, e.Message)
			}
			if t.Description == "" {
				res.addWarning(field+".description", "tool has no description")
			}
			if prev, dup := toolFiles[t.ID]; dup {
				res.addError(field+".id", fmt.Sprintf("duplicate tool id (also in %s)", prev))
			} else if t.ID != "" {
				toolFiles[t.ID] = name
			}
			if t.Names.MCP != "" {
				if owner, dup := mcpNames[t.Names.MCP]; dup {
					res.addError(field+".names.mcp",
						fmt.Sprintf("duplicate tool name %q (also used by %s)", t.Names.MCP, owner))
				} else {
					mcpNames[t.Names.MCP] = t.ID
				}
			}
		}

		for _, w := range file.Workflows {
			field := fmt.Sprintf("workflows[%s]", w.ID)
			for _, e := range ValidateWorkflowEntry(w) {
				res.addError(field+"."+e.Field, e.Message)
			}
			if len(w.Tools) == 0 {
				res.addWarning(field+".tools", "workflow has no tools")
			}
			for _, tid := range w.Tools {
				refs = append(refs, workflowRef{file: name, workflow: w.ID, tool: tid})
			}
		}
	}

	for _, ref := range refs {
		if _, ok := toolFiles[ref.tool]; !ok {
			results[ref.file].addError(
				fmt.Sprintf("workflows[%s].tools", ref.workflow),
				fmt.Sprintf("references unknown tool %q", ref.tool))
		}
	}

	return results, nil
}

// ValidateDirectory validates a directory of manifest files on disk.
func ValidateDirectory(dir string) (map[string]*Result, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return ValidateFS(os.DirFS(dir))
}
