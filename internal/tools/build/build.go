// Package build drives xcodebuild against the iOS simulator.
package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
	"github.com/xcmcp/xcmcp/internal/tools/discovery"
)

const defaultSimulatorName = "iPhone 16"

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "build",
		Tools: []tools.Tool{
			{
				ID: "buildSim",
				Def: mcp.NewTool("build_sim",
					mcp.WithDescription("Build a scheme for the iOS simulator."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
					mcp.WithString("scheme", mcp.Required(),
						mcp.Description("Scheme to build")),
					mcp.WithString("simulator_name",
						mcp.Description("Destination simulator name (default \"iPhone 16\")")),
					mcp.WithString("configuration",
						mcp.Description("Build configuration (default Debug)")),
				),
				Handler: handleBuildSim,
			},
			{
				ID: "buildRunSim",
				Def: mcp.NewTool("build_run_sim",
					mcp.WithDescription("Build a scheme, then install and launch it on the booted simulator."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
					mcp.WithString("scheme", mcp.Required(),
						mcp.Description("Scheme to build and run")),
					mcp.WithString("simulator_name",
						mcp.Description("Destination simulator name (default \"iPhone 16\")")),
				),
				Handler: handleBuildRunSim,
			},
			{
				ID: "testSim",
				Def: mcp.NewTool("test_sim",
					mcp.WithDescription("Run a scheme's tests on the iOS simulator."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
					mcp.WithString("scheme", mcp.Required(),
						mcp.Description("Scheme to test")),
					mcp.WithString("simulator_name",
						mcp.Description("Destination simulator name (default \"iPhone 16\")")),
				),
				Handler: handleTestSim,
			},
			{
				ID: "cleanBuild",
				Def: mcp.NewTool("clean",
					mcp.WithDescription("Remove build products for a scheme."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
					mcp.WithString("scheme", mcp.Required(),
						mcp.Description("Scheme to clean")),
				),
				Handler: handleClean,
			},
		},
	}
}

func simDestination(req mcp.CallToolRequest) string {
	name := req.GetString("simulator_name", defaultSimulatorName)
	return fmt.Sprintf("platform=iOS Simulator,name=%s", name)
}

func xcodebuildArgs(action, path, scheme string, extra ...string) []string {
	args := []string{"xcodebuild", action, "-scheme", scheme}
	args = append(args, discovery.ContainerArgs(path)...)
	return append(args, extra...)
}

// parseSetting extracts one build setting from -showBuildSettings output.
func parseSetting(output, key string) string {
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, key+" = ") {
			return strings.TrimPrefix(trimmed, key+" = ")
		}
	}
	return ""
}

func handleBuildSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheme, err := req.RequireString("scheme")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := xcodebuildArgs("build", path, scheme,
		"-destination", simDestination(req),
		"-configuration", req.GetString("configuration", "Debug"))
	out, err := run.Run(ctx, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Build succeeded for scheme %s\n%s", scheme, tail(out, 20))), nil
}

func handleBuildRunSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheme, err := req.RequireString("scheme")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest := simDestination(req)

	buildArgs := xcodebuildArgs("build", path, scheme, "-destination", dest)
	out, err := run.Run(ctx, buildArgs...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v\n%s", err, out)), nil
	}

	settingsArgs := xcodebuildArgs("-showBuildSettings", path, scheme, "-destination", dest)
	settings, err := run.Run(ctx, settingsArgs...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading build settings failed: %v\n%s", err, settings)), nil
	}

	buildDir := parseSetting(settings, "TARGET_BUILD_DIR")
	product := parseSetting(settings, "FULL_PRODUCT_NAME")
	bundleID := parseSetting(settings, "PRODUCT_BUNDLE_IDENTIFIER")
	if buildDir == "" || product == "" || bundleID == "" {
		return mcp.NewToolResultError("could not determine app path or bundle identifier from build settings"), nil
	}
	appPath := buildDir + "/" + product

	if out, err := run.Run(ctx, "xcrun", "simctl", "install", "booted", appPath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("installing %s failed: %v\n%s", appPath, err, out)), nil
	}
	if out, err := run.Run(ctx, "xcrun", "simctl", "launch", "booted", bundleID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("launching %s failed: %v\n%s", bundleID, err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Built, installed and launched %s (%s)", product, bundleID)), nil
}

func handleTestSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheme, err := req.RequireString("scheme")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := xcodebuildArgs("test", path, scheme, "-destination", simDestination(req))
	out, err := run.Run(ctx, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tests failed: %v\n%s", err, tail(out, 50))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tests passed for scheme %s\n%s", scheme, tail(out, 20))), nil
}

func handleClean(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheme, err := req.RequireString("scheme")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := xcodebuildArgs("clean", path, scheme)
	out, err := run.Run(ctx, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clean failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleaned scheme %s", scheme)), nil
}

// tail returns the last n lines of output. xcodebuild logs are long; the
// interesting part is at the end.
func tail(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) <= n {
		return output
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
