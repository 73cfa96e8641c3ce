package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ddtest/internal/cli"
	"ddtest/internal/descriptor"
	"ddtest/internal/environment"
	"ddtest/internal/ui"
)

// TargetsCommand handles the targets command
type TargetsCommand struct {
	state *State
	flags *cli.Flags
}

// NewTargetsCommand creates a new TargetsCommand
func NewTargetsCommand(state *State, flags *cli.Flags) *TargetsCommand {
	return &TargetsCommand{state: state, flags: flags}
}

// Execute runs the command. Without --inject the descriptor is left untouched.
func (tc *TargetsCommand) Execute(cmd *cobra.Command, args []string) error {
	file := args[0]
	root, err := descriptor.Decode(file)
	if err != nil {
		return err
	}

	snapshot, err := tc.state.snapshot()
	if err != nil {
		return err
	}
	vars := environment.DefaultCatalog.Resolve(snapshot)

	formatter := ui.NewFormatter(tc.state.Config)
	formatter.SetOutput(cmd.OutOrStdout())
	formatter.PrintTargets(file, descriptor.CollectTargets(root), vars)

	if !tc.flags.Inject {
		return nil
	}
	injector := environment.NewInjector(tc.state.fieldWriter(), tc.state.Logger)
	written, err := injector.InjectAll(cmd.Context(), file, root, vars)
	if err != nil {
		return err
	}
	color.Green("Injected %d variable(s) into %d target(s)", len(vars), len(written))
	return nil
}
