package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ddtest/internal/framework"
)

// VersionCommand handles the version command
type VersionCommand struct {
	version string
}

// NewVersionCommand creates a new VersionCommand
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{version: version}
}

// Execute runs the command
func (vc *VersionCommand) Execute(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "ddtest %s (injects %s)\n", vc.version, framework.Name)
}
