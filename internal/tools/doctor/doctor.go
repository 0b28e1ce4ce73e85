// Package doctor checks the local Xcode toolchain.
package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/logger"
	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "doctor",
		Tools: []tools.Tool{
			{
				ID: "doctor",
				Def: mcp.NewTool("doctor",
					mcp.WithDescription("Check the local Xcode toolchain and report anything missing."),
				),
				Handler: handleDoctor,
			},
		},
	}
}

type check struct {
	name     string
	args     []string
	required bool
	hint     string
}

var checks = []check{
	{"Xcode path", []string{"xcode-select", "-p"}, true,
		"install Xcode and run xcode-select --switch"},
	{"xcodebuild", []string{"xcodebuild", "-version"}, true,
		"install the full Xcode app, not just the command line tools"},
	{"simctl", []string{"xcrun", "simctl", "help"}, true,
		"ships with Xcode; reinstall if missing"},
	{"axe", []string{"axe", "--version"}, false,
		"brew install cameroncooke/axe/axe enables the UI automation tools"},
	{"xcodegen", []string{"xcodegen", "--version"}, false,
		"brew install xcodegen enables project scaffolding"},
}

func handleDoctor(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	var b strings.Builder
	missing := 0

	for _, c := range checks {
		out, err := run.Run(ctx, c.args...)
		if err != nil {
			if c.required {
				missing++
				fmt.Fprintf(&b, "[FAIL] %s: %v (%s)\n", c.name, err, c.hint)
			} else {
				fmt.Fprintf(&b, "[skip] %s: not found (%s)\n", c.name, c.hint)
			}
			continue
		}
		fmt.Fprintf(&b, "[ ok ] %s: %s\n", c.name, firstLine(out))
	}

	if path := logger.GetLogFilePath(); path != "" {
		fmt.Fprintf(&b, "\nLog file: %s\n", path)
	}
	if entries := logger.Tail(5); len(entries) > 0 {
		b.WriteString("Recent log entries:\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Level, e.Message)
		}
	}

	if missing > 0 {
		fmt.Fprintf(&b, "\n%d required component(s) missing", missing)
		return mcp.NewToolResultError(b.String()), nil
	}
	b.WriteString("\nToolchain looks healthy")
	return mcp.NewToolResultText(b.String()), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
