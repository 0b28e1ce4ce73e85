// Package discovery finds Xcode projects and inspects their schemes and
// build settings.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

const maxScanDepth = 5

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "discovery",
		Tools: []tools.Tool{
			{
				ID: "discoverProjs",
				Def: mcp.NewTool("discover_projs",
					mcp.WithDescription("Scan a directory tree for Xcode projects (.xcodeproj) and workspaces (.xcworkspace)."),
					mcp.WithString("workspace_root", mcp.Required(),
						mcp.Description("Directory to scan")),
				),
				Handler: handleDiscoverProjs,
			},
			{
				ID: "listSchemes",
				Def: mcp.NewTool("list_schemes",
					mcp.WithDescription("List the schemes of an Xcode project or workspace."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
				),
				Handler: handleListSchemes,
			},
			{
				ID: "showBuildSettings",
				Def: mcp.NewTool("show_build_settings",
					mcp.WithDescription("Show resolved build settings for a scheme."),
					mcp.WithString("project_path", mcp.Required(),
						mcp.Description("Path to a .xcodeproj or .xcworkspace")),
					mcp.WithString("scheme", mcp.Required(),
						mcp.Description("Scheme name")),
				),
				Handler: handleShowBuildSettings,
			},
		},
	}
}

// ContainerArgs returns the xcodebuild flag selecting a project or
// workspace, based on the path extension.
func ContainerArgs(path string) []string {
	if strings.HasSuffix(path, ".xcworkspace") {
		return []string{"-workspace", path}
	}
	return []string{"-project", path}
}

func handleDiscoverProjs(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	root, err := req.RequireString("workspace_root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var projects, workspaces []string
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if depth > maxScanDepth {
			return filepath.SkipDir
		}
		switch filepath.Ext(path) {
		case ".xcodeproj":
			projects = append(projects, path)
			return filepath.SkipDir
		case ".xcworkspace":
			// Workspaces embedded in a project bundle are not top-level.
			if !strings.Contains(path, ".xcodeproj/") {
				workspaces = append(workspaces, path)
			}
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", walkErr)), nil
	}

	sort.Strings(projects)
	sort.Strings(workspaces)

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d project(s) and %d workspace(s) under %s\n", len(projects), len(workspaces), root)
	for _, p := range projects {
		fmt.Fprintf(&b, "project: %s\n", p)
	}
	for _, w := range workspaces {
		fmt.Fprintf(&b, "workspace: %s\n", w)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleListSchemes(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := append([]string{"xcodebuild", "-list", "-json"}, ContainerArgs(path)...)
	out, err := run.Run(ctx, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing schemes failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func handleShowBuildSettings(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scheme, err := req.RequireString("scheme")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := append([]string{"xcodebuild", "-showBuildSettings", "-scheme", scheme}, ContainerArgs(path)...)
	out, err := run.Run(ctx, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading build settings failed: %v\n%s", err, out)), nil
	}
	return mcp.NewToolResultText(out), nil
}
