// Package commands implements the xcmcp-cli command tree. The CLI runs
// tools in-process under their derived kebab-case names; no server has to
// be running.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xcmcp/xcmcp/internal/config"
	"github.com/xcmcp/xcmcp/internal/manifest"
)

var (
	manifestDir string
	logLevel    string
	jsonOutput  bool
	rawOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "xcmcp-cli",
	Short: "Xcode build, simulator and automation tools from the command line",
	Long: `xcmcp-cli exposes the same tools the xcmcp MCP server offers, under
their command-line names. Tools run directly in this process; no daemon
or MCP client is involved.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestDir, "manifest-dir", "", "load the tool manifest from this directory instead of the built-in one")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "raw output (no formatting)")
}

// loadManifest resolves the manifest: --manifest-dir beats the config
// file's manifest_dir beats the embedded manifest.
func loadManifest() (*manifest.Manifest, error) {
	if manifestDir != "" {
		return manifest.LoadDir(manifestDir)
	}
	if dir, err := config.Dir(); err == nil {
		if cfg, err := config.Load(dir); err == nil && cfg.ManifestDir != "" {
			return manifest.LoadDir(cfg.ManifestDir)
		}
	}
	return manifest.Default()
}

// cliController satisfies the workflows module's controller when tools run
// outside a server. Workflow activation only makes sense against a live
// host, so it refuses.
type cliController struct {
	m *manifest.Manifest
}

func (c *cliController) EnableWorkflows(ctx context.Context, names []string, additive bool) error {
	return fmt.Errorf("workflow activation requires a running server")
}
func (c *cliController) EnabledWorkflows() []string       { return nil }
func (c *cliController) IsWorkflowEnabled(id string) bool { return false }
func (c *cliController) Manifest() *manifest.Manifest     { return c.m }
