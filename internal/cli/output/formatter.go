package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/xcmcp/xcmcp/internal/cli/errors"
	"github.com/xcmcp/xcmcp/internal/manifest"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatRaw  OutputFormat = "raw"
)

type Formatter struct {
	format OutputFormat
	color  bool
}

func NewFormatter(format OutputFormat, useColor bool) *Formatter {
	return &Formatter{
		format: format,
		color:  useColor,
	}
}

func (f *Formatter) FormatResult(result *CallResult) string {
	if f.format == FormatJSON {
		s, _ := result.JSON()
		return s
	}
	if f.format == FormatRaw {
		return result.Text("")
	}

	if result.IsError() {
		if f.color {
			return color.RedString("Error: ") + result.Text("\n")
		}
		return "Error: " + result.Text("\n")
	}
	return result.Text("\n")
}

func (f *Formatter) FormatError(err errors.ClassifiedError) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(err, "", "  ")
		return string(data)
	}

	var msg string
	if f.color {
		msg = color.RedString("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\n" + color.YellowString("Hint: %s", err.Hint)
		}
	} else {
		msg = fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\nHint: " + err.Hint
		}
	}
	return msg
}

func (f *Formatter) FormatTools(tools []manifest.ToolEntry) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(tools, "", "  ")
		fmt.Println(string(data))
		return ""
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Command", "Module", "Description"}),
	)

	for _, t := range tools {
		table.Append([]string{t.EffectiveCLIName(), t.Module, t.Description})
	}

	table.Render()
	return "" // tablewriter writes directly to stdout
}

// WorkflowRow is one row of the workflows table.
type WorkflowRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ToolCount   int    `json:"tool_count"`
	DefaultOn   bool   `json:"default_enabled"`
	AutoInclude bool   `json:"auto_include"`
}

func (f *Formatter) FormatWorkflows(rows []WorkflowRow) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(data))
		return ""
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Workflow", "Title", "Tools", "Default", "Auto"}),
	)

	for _, r := range rows {
		table.Append([]string{
			r.ID, r.Title, fmt.Sprintf("%d", r.ToolCount),
			yesNo(r.DefaultOn), yesNo(r.AutoInclude),
		})
	}

	table.Render()
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
