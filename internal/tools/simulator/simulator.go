// Package simulator manages iOS simulators through simctl.
package simulator

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "simulator",
		Tools: []tools.Tool{
			{
				ID: "listSims",
				Def: mcp.NewTool("list_sims",
					mcp.WithDescription("List available iOS simulators with their UDIDs and states."),
				),
				Handler: handleListSims,
			},
			{
				ID: "bootSim",
				Def: mcp.NewTool("boot_sim",
					mcp.WithDescription("Boot a simulator. Booting an already-booted simulator succeeds."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID, from list_sims")),
				),
				Handler: handleBootSim,
			},
			{
				ID: "openSim",
				Def: mcp.NewTool("open_sim",
					mcp.WithDescription("Open the Simulator app so booted simulators become visible."),
				),
				Handler: handleOpenSim,
			},
			{
				ID: "installAppSim",
				Def: mcp.NewTool("install_app_sim",
					mcp.WithDescription("Install an .app bundle on a simulator."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithString("app_path", mcp.Required(),
						mcp.Description("Path to the .app bundle")),
				),
				Handler: handleInstallAppSim,
			},
			{
				ID: "launchAppSim",
				Def: mcp.NewTool("launch_app_sim",
					mcp.WithDescription("Launch an installed app on a simulator."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithString("bundle_id", mcp.Required(),
						mcp.Description("App bundle identifier")),
				),
				Handler: handleLaunchAppSim,
			},
			{
				ID: "stopAppSim",
				Def: mcp.NewTool("stop_app_sim",
					mcp.WithDescription("Terminate a running app on a simulator."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithString("bundle_id", mcp.Required(),
						mcp.Description("App bundle identifier")),
				),
				Handler: handleStopAppSim,
			},
		},
	}
}

func handleListSims(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	out, err := run.Run(ctx, "xcrun", "simctl", "list", "devices", "available", "--json")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing simulators failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleBootSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "xcrun", "simctl", "boot", udid)
	if err != nil {
		// simctl treats booting a booted device as an error; we do not.
		if strings.Contains(out, "current state: Booted") {
			return mcp.NewToolResultText(fmt.Sprintf("Simulator %s is already booted", udid)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("booting simulator failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Booted simulator %s", udid)), nil
}

func handleOpenSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	out, err := run.Run(ctx, "open", "-a", "Simulator")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opening Simulator failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText("Simulator app opened"), nil
}

func handleInstallAppSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	appPath, err := req.RequireString("app_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "xcrun", "simctl", "install", udid, appPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("installing app failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Installed %s on %s", appPath, udid)), nil
}

func handleLaunchAppSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bundleID, err := req.RequireString("bundle_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "xcrun", "simctl", "launch", udid, bundleID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("launching app failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Launched %s on %s\n%s", bundleID, udid, out)), nil
}

func handleStopAppSim(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bundleID, err := req.RequireString("bundle_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "xcrun", "simctl", "terminate", udid, bundleID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("terminating app failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Terminated %s on %s", bundleID, udid)), nil
}
