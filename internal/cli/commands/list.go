package commands

import (
	"github.com/spf13/cobra"

	"github.com/xcmcp/xcmcp/internal/cli/output"
	"github.com/xcmcp/xcmcp/internal/manifest"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools available from the CLI",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}

		var entries []manifest.ToolEntry
		for _, id := range m.ToolIDs() {
			t := m.Tools[id]
			if t.ExposedViaCLI() {
				entries = append(entries, t)
			}
		}

		formatter := output.NewFormatter(currentFormat(), true)
		formatter.FormatTools(entries)
		return nil
	},
}

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List workflows and their selection policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}

		var rows []output.WorkflowRow
		for _, id := range m.WorkflowIDs() {
			w := m.Workflows[id]
			rows = append(rows, output.WorkflowRow{
				ID:          w.ID,
				Title:       w.Title,
				ToolCount:   len(w.Tools),
				DefaultOn:   w.DefaultEnabled(),
				AutoInclude: w.AutoInclude(),
			})
		}

		formatter := output.NewFormatter(currentFormat(), true)
		formatter.FormatWorkflows(rows)
		return nil
	},
}

func currentFormat() output.OutputFormat {
	switch {
	case jsonOutput:
		return output.FormatJSON
	case rawOutput:
		return output.FormatRaw
	default:
		return output.FormatText
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(workflowsCmd)
}
