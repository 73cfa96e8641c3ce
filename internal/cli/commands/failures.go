package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ddtest/internal/storage"
	"ddtest/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	state *State
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(state *State) *FailuresCommand {
	return &FailuresCommand{state: state}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st := storage.NewJSONStorage(fc.state.Config)
	report, err := st.Load()
	if err != nil {
		return err
	}
	if len(report.Failed()) == 0 {
		color.Green("No failures in the last run")
		return nil
	}
	var viewer ui.Viewer = ui.NewErrorViewer(fc.state.Config, st)
	return viewer.View(report)
}
