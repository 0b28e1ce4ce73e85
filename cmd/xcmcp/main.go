// Command xcmcp is the MCP server. It speaks the protocol on stdio and
// starts with the manifest's default workflows enabled; clients grow the
// tool list at runtime through enable_workflows.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/xcmcp/xcmcp/internal/catalog"
	"github.com/xcmcp/xcmcp/internal/config"
	"github.com/xcmcp/xcmcp/internal/logger"
	"github.com/xcmcp/xcmcp/internal/manifest"
	"github.com/xcmcp/xcmcp/internal/registrar"
)

const version = "0.3.0"

func main() {
	if err := run(true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serve bool) error {
	appDir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(appDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(appDir); err != nil {
		return err
	}
	defer logger.Close()
	logger.SetLevel(cfg.LogLevel)

	var m *manifest.Manifest
	if cfg.ManifestDir != "" {
		m, err = manifest.LoadDir(cfg.ManifestDir)
	} else {
		m, err = manifest.Default()
	}
	if err != nil {
		// A broken manifest means a broken catalog; refuse to start.
		return fmt.Errorf("loading manifest: %w", err)
	}

	s := server.NewMCPServer(
		"xcmcp",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions(m)),
	)

	handle, err := registrar.NewHandle(s)
	if err != nil {
		return err
	}
	engine := registrar.NewEngine(m, handle)
	engine.SetLoaders(catalog.Loaders(engine))

	ctx := context.Background()
	if len(cfg.DefaultWorkflows) > 0 {
		err = engine.EnableWorkflows(ctx, cfg.DefaultWorkflows, true)
	} else {
		err = engine.EnableDefaults(ctx)
	}
	if err != nil {
		return fmt.Errorf("enabling default workflows: %w", err)
	}

	if !serve {
		return nil
	}

	logger.Infof("xcmcp %s serving on stdio", version)
	return server.ServeStdio(s)
}

func instructions(m *manifest.Manifest) string {
	return "Xcode tooling over MCP. Only the default workflows are enabled at " +
		"startup; call enable_workflows to activate more. The full tool set:\n\n" +
		catalog.Descriptions(m)
}
