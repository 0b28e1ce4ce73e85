// Package macos builds, launches and stops macOS apps.
package macos

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
	"github.com/xcmcp/xcmcp/internal/tools/discovery"
)

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "macos",
		Tools: []tools.Tool{
			{
				ID: "buildMacos",
				Def: mcp.NewTool("build_macos",
					mcp.WithDescription("Build a scheme for macOS."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
					mcp.WithString("scheme", mcp.Required(),
						mcp.Description("Scheme to build")),
					mcp.WithString("configuration",
						mcp.Description("Build configuration (default Debug)")),
				),
				Handler: handleBuildMacos,
			},
			{
				ID: "launchMacos",
				Def: mcp.NewTool("launch_macos",
					mcp.WithDescription("Launch a built macOS app bundle."),
					mcp.WithString("app_path", mcp.Required(),
						mcp.Description("Path to the .app bundle")),
				),
				Handler: handleLaunchMacos,
			},
			{
				ID: "stopMacApp",
				Def: mcp.NewTool("stop_mac_app",
					mcp.WithDescription("Terminate a running macOS app by name or process id."),
					mcp.WithString("app_name",
						mcp.Description("App name as shown in the process list")),
					mcp.WithString("process_id",
						mcp.Description("Process id, used instead of app_name when given")),
				),
				Handler: handleStopMacApp,
			},
			{
				ID: "getMacBundleId",
				Def: mcp.NewTool("get_mac_bundle_id",
					mcp.WithDescription("Read the bundle identifier from a macOS .app bundle."),
					mcp.WithString("app_path", mcp.Required(),
						mcp.Description("Path to the .app bundle")),
				),
				Handler: handleGetMacBundleID,
			},
		},
	}
}

func handleBuildMacos(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheme, err := req.RequireString("scheme")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := []string{"xcodebuild", "build", "-scheme", scheme}
	args = append(args, discovery.ContainerArgs(path)...)
	args = append(args, "-destination", "platform=macOS",
		"-configuration", req.GetString("configuration", "Debug"))

	out, err := run.Run(ctx, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Build succeeded for scheme %s", scheme)), nil
}

func handleLaunchMacos(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	appPath, err := req.RequireString("app_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "open", appPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("launching app failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Launched %s", appPath)), nil
}

func handleStopMacApp(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	if pid := req.GetString("process_id", ""); pid != "" {
		out, err := run.Run(ctx, "kill", pid)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stopping process %s failed: %v\n%s", pid, err, out)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Stopped process %s", pid)), nil
	}

	name := req.GetString("app_name", "")
	if name == "" {
		return mcp.NewToolResultError("either app_name or process_id is required"), nil
	}
	out, err := run.Run(ctx, "pkill", "-x", name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stopping %s failed: %v\n%s", name, err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Stopped %s", name)), nil
}

func handleGetMacBundleID(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	appPath, err := req.RequireString("app_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plist := strings.TrimSuffix(appPath, "/") + "/Contents/Info"
	out, err := run.Run(ctx, "defaults", "read", plist, "CFBundleIdentifier")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading bundle identifier failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(strings.TrimSpace(out)), nil
}
