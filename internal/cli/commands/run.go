package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ddtest/internal/cli"
	"ddtest/internal/discovery"
	"ddtest/internal/environment"
	"ddtest/internal/execution"
	"ddtest/internal/framework"
	"ddtest/internal/parser"
	"ddtest/internal/storage"
	"ddtest/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	state *State
	flags *cli.Flags
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(state *State, flags *cli.Flags) *RunCommand {
	return &RunCommand{state: state, flags: flags}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, logger := rc.state.Config, rc.state.Logger

	snapshot, err := rc.state.snapshot()
	if err != nil {
		return err
	}

	proc := rc.state.processRunner()
	installer := framework.NewInstaller(cfg, logger)
	installer.SetProgress(ui.DownloadProgress)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)

	driver := execution.NewDriver(cfg, execution.Deps{
		Runner:    execution.NewRunner(cfg, proc, cmd.OutOrStdout()),
		Installer: installer,
		Schemes:   discovery.NewSchemeLister(proc, logger),
		TestPlans: discovery.NewTestPlanEditor(discovery.NewScanner(cfg.TestPlanPatterns, cfg.PathsToIgnore), logger),
		Injector:  environment.NewInjector(rc.state.fieldWriter(), logger),
		Parser:    parser.NewXcodebuildParser(),
		Storage:   jsonStorage,
		Reporter:  formatter,
		Catalog:   environment.DefaultCatalog,
		Env:       snapshot,
		Logger:    logger,
	})

	report, runErr := driver.Run(cmd.Context())
	if report == nil {
		return runErr
	}

	formatter.PrintSummary(report)

	if runErr != nil && rc.flags.OpenFailures {
		if err := ui.NewErrorViewer(cfg, jsonStorage).View(report); err != nil {
			color.Yellow("Failures viewer: %v", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("test run failed: %w", runErr)
	}
	return nil
}
