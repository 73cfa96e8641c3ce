package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ddtest/internal/discovery"
	"ddtest/internal/domain"
	"ddtest/internal/ui"
)

// SchemesCommand handles the schemes command
type SchemesCommand struct {
	state *State
}

// NewSchemesCommand creates a new SchemesCommand
func NewSchemesCommand(state *State) *SchemesCommand {
	return &SchemesCommand{state: state}
}

// Execute runs the command
func (sc *SchemesCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := sc.state.Config
	formatter := ui.NewFormatter(cfg)
	formatter.SetOutput(cmd.OutOrStdout())

	sel, err := discovery.SelectProject(cfg.GetProjectPath(), cfg.Workspace, cfg.Project)
	if err != nil {
		return err
	}
	if sel.Kind == domain.KindSwiftPackage {
		formatter.PrintSelection(sel, "")
		color.Yellow("Swift packages are tested with swift test, no scheme is needed")
		return nil
	}

	lister := discovery.NewSchemeLister(sc.state.processRunner(), sc.state.Logger)
	list, err := lister.List(cmd.Context(), sel)
	if err != nil {
		return err
	}

	selected := cfg.Scheme
	if selected == "" {
		name := list.Name
		if name == "" {
			name = sel.ContainerName()
		}
		selected = discovery.ResolveScheme(list.Schemes, name)
	}
	formatter.PrintSelection(sel, selected)
	formatter.PrintSchemes(list.Schemes, selected)
	return nil
}
