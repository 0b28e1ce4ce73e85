package commands

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/xcmcp/xcmcp/internal/catalog"
	"github.com/xcmcp/xcmcp/internal/cli/errors"
	"github.com/xcmcp/xcmcp/internal/cli/output"
	"github.com/xcmcp/xcmcp/internal/logger"
	"github.com/xcmcp/xcmcp/internal/manifest"
	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

var callCmd = &cobra.Command{
	Use:   "call <tool> [key=value...]",
	Short: "Run a tool by its command-line name",
	Long: `Run a tool directly, passing arguments as key=value pairs:

  xcmcp-cli call build-sim project_path=./App.xcodeproj scheme=App
  xcmcp-cli call list-sims`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetLevel(logLevel)

		m, err := loadManifest()
		if err != nil {
			return err
		}

		formatter := output.NewFormatter(currentFormat(), true)

		tool, err := resolveTool(m, args[0])
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			return err
		}

		toolArgs := make(map[string]any)
		for _, arg := range args[1:] {
			kv := strings.SplitN(arg, "=", 2)
			if len(kv) != 2 {
				return fmt.Errorf("argument %q is not key=value", arg)
			}
			toolArgs[kv[0]] = kv[1]
		}

		req := mcp.CallToolRequest{}
		req.Params.Name = tool.Def.Name
		req.Params.Arguments = toolArgs

		res, err := tool.Handler(cmd.Context(), req, runner.Default())
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			return err
		}

		result := output.NewCallResult(res)
		if result.IsError() {
			classified := errors.ClassifyMessage(result.Text("\n"))
			fmt.Println(formatter.FormatError(classified))
			return fmt.Errorf("%s failed", args[0])
		}
		fmt.Println(formatter.FormatResult(result))
		return nil
	},
}

// resolveTool maps a CLI command name onto a loaded tool.
func resolveTool(m *manifest.Manifest, cliName string) (*tools.Tool, error) {
	loaders := catalog.Loaders(&cliController{m: m})

	for _, id := range m.ToolIDs() {
		entry := m.Tools[id]
		if !entry.ExposedViaCLI() || entry.EffectiveCLIName() != cliName {
			continue
		}
		load, ok := loaders[entry.Module]
		if !ok {
			return nil, fmt.Errorf("tool %s: module %s is not built in", cliName, entry.Module)
		}
		bundle, err := load()
		if err != nil {
			return nil, fmt.Errorf("loading module %s: %w", entry.Module, err)
		}
		if tool := bundle.Find(entry.ID); tool != nil {
			return tool, nil
		}
		return nil, fmt.Errorf("tool %s not found in module %s", cliName, entry.Module)
	}
	return nil, fmt.Errorf("unknown tool %q; run 'xcmcp-cli list'", cliName)
}

func init() {
	rootCmd.AddCommand(callCmd)
}
