// Package scaffold creates new iOS and macOS app projects from embedded
// templates. The generated tree is an XcodeGen spec plus SwiftUI sources;
// when xcodegen is installed the .xcodeproj is generated in place.
package scaffold

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xcmcp/xcmcp/internal/runner"
	"github.com/xcmcp/xcmcp/internal/tools"
)

//go:embed templates
var templates embed.FS

type projectParams struct {
	Name             string
	BundleIdentifier string
	Platform         string // iOS or macOS
	DeploymentTarget string
}

func Bundle() *tools.Bundle {
	return &tools.Bundle{
		Module: "scaffold",
		Tools: []tools.Tool{
			{
				ID: "scaffoldIosProject",
				Def: mcp.NewTool("scaffold_ios_project",
					mcp.WithDescription("Create a new iOS SwiftUI app project from the built-in template."),
					mcp.WithString("project_name", mcp.Required(),
						mcp.Description("Name of the new project")),
					mcp.WithString("output_path", mcp.Required(),
						mcp.Description("Directory to create the project in")),
					mcp.WithString("bundle_identifier",
						mcp.Description("Bundle identifier (default com.example.<name>)")),
				),
				Handler: scaffoldHandler("iOS", "17.0"),
			},
			{
				ID: "scaffoldMacosProject",
				Def: mcp.NewTool("scaffold_macos_project",
					mcp.WithDescription("Create a new macOS SwiftUI app project from the built-in template."),
					mcp.WithString("project_name", mcp.Required(),
						mcp.Description("Name of the new project")),
					mcp.WithString("output_path", mcp.Required(),
						mcp.Description("Directory to create the project in")),
					mcp.WithString("bundle_identifier",
						mcp.Description("Bundle identifier (default com.example.<name>)")),
				),
				Handler: scaffoldHandler("macOS", "14.0"),
			},
		},
	}
}

func scaffoldHandler(platform, deploymentTarget string) tools.Handler {
	return func(ctx context.Context, req mcp.CallToolRequest, run runner.CommandRunner) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("project_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		outputPath, err := req.RequireString("output_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if strings.ContainsAny(name, "/\\ ") {
			return mcp.NewToolResultError("project_name must not contain spaces or path separators"), nil
		}

		params := projectParams{
			Name:             name,
			BundleIdentifier: req.GetString("bundle_identifier", "com.example."+strings.ToLower(name)),
			Platform:         platform,
			DeploymentTarget: deploymentTarget,
		}

		projectDir := filepath.Join(outputPath, name)
		if _, err := os.Stat(projectDir); err == nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s already exists", projectDir)), nil
		}
		if err := renderProject(projectDir, params); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scaffolding failed: %v", err)), nil
		}

		// Generating the .xcodeproj needs xcodegen; the rendered source
		// tree alone is still a usable result.
		out, err := run.Run(ctx, "xcodegen", "generate", "--spec",
			filepath.Join(projectDir, "project.yml"), "--project", projectDir)
		if err != nil {
			return mcp.NewToolResultText(fmt.Sprintf(
				"Created %s project at %s.\nxcodegen is not available (%v); run `xcodegen generate` there to produce the .xcodeproj.\n%s",
				platform, projectDir, err, out)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Created %s project at %s", platform, projectDir)), nil
	}
}

func renderProject(projectDir string, params projectParams) error {
	files := map[string]string{
		"templates/project.yml.tmpl":       "project.yml",
		"templates/App.swift.tmpl":         filepath.Join("Sources", params.Name+"App.swift"),
		"templates/ContentView.swift.tmpl": filepath.Join("Sources", "ContentView.swift"),
	}

	for src, dst := range files {
		tmpl, err := template.ParseFS(templates, src)
		if err != nil {
			return err
		}
		target := filepath.Join(projectDir, dst)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		f, err := os.Create(target)
		if err != nil {
			return err
		}
		if err := tmpl.Execute(f, params); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
