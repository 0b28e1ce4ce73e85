// Command xcmcp-cli runs the xcmcp tools directly from the shell.
package main

import (
	"os"

	"github.com/xcmcp/xcmcp/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
