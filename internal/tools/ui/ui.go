// Package ui drives a simulator's UI through the axe accessibility tool
// and captures screenshots via simctl.
package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "ui",
		Tools: []tools.Tool{
			{
				ID: "describeUi",
				Def: mcp.NewTool("describe_ui",
					mcp.WithDescription("Dump the accessibility hierarchy of the foreground app on a simulator."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
				),
				Handler: handleDescribeUI,
			},
			{
				ID: "tap",
				Def: mcp.NewTool("tap",
					mcp.WithDescription("Tap a coordinate on the simulator screen."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate in points")),
					mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate in points")),
				),
				Handler: handleTap,
			},
			{
				ID: "typeText",
				Def: mcp.NewTool("type_text",
					mcp.WithDescription("Type text into the focused element on a simulator."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithString("text", mcp.Required(),
						mcp.Description("Text to type")),
				),
				Handler: handleTypeText,
			},
			{
				ID: "swipe",
				Def: mcp.NewTool("swipe",
					mcp.WithDescription("Swipe between two coordinates on the simulator screen."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithNumber("x1", mcp.Required(), mcp.Description("Start X coordinate")),
					mcp.WithNumber("y1", mcp.Required(), mcp.Description("Start Y coordinate")),
					mcp.WithNumber("x2", mcp.Required(), mcp.Description("End X coordinate")),
					mcp.WithNumber("y2", mcp.Required(), mcp.Description("End Y coordinate")),
				),
				Handler: handleSwipe,
			},
			{
				ID: "screenshot",
				Def: mcp.NewTool("screenshot",
					mcp.WithDescription("Capture a screenshot of a simulator to a file."),
					mcp.WithString("simulator_uuid", mcp.Required(),
						mcp.Description("Simulator UDID")),
					mcp.WithString("output_path", mcp.Required(),
						mcp.Description("Destination file path (.png)")),
				),
				Handler: handleScreenshot,
			},
		},
	}
}

func requireInt(req mcp.CallToolRequest, name string) (string, error) {
	v, err := req.RequireInt(name)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(v), nil
}

func handleDescribeUI(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "axe", "describe-ui", "--udid", udid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describing UI failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleTap(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := requireInt(req, "x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := requireInt(req, "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "axe", "tap", "-x", x, "-y", y, "--udid", udid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tap failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tapped (%s, %s)", x, y)), nil
}

func handleTypeText(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "axe", "type", text, "--udid", udid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("typing failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText("Typed text"), nil
}

func handleSwipe(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	coords := make([]string, 4)
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		v, err := requireInt(req, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		coords[i] = v
	}

	out, err := run.Run(ctx, "axe", "swipe",
		"--start-x", coords[0], "--start-y", coords[1],
		"--end-x", coords[2], "--end-y", coords[3],
		"--udid", udid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("swipe failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText("Swiped"), nil
}

func handleScreenshot(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	udid, err := req.RequireString("simulator_uuid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := req.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := run.Run(ctx, "xcrun", "simctl", "io", udid, "screenshot", outputPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("screenshot failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Screenshot saved to %s", outputPath)), nil
}
