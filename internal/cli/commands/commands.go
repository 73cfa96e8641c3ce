package commands

import (
	"github.com/spf13/cobra"

	"ddtest/internal/cli"
)

// Commands holds all CLI commands
type Commands struct {
	state    *State
	Run      *RunCommand
	Schemes  *SchemesCommand
	Targets  *TargetsCommand
	Failures *FailuresCommand
	Version  *VersionCommand
}

// NewCommands creates all commands. Dependencies that need the loaded
// configuration are built when a command executes.
func NewCommands(state *State, flags *cli.Flags, version string) *Commands {
	return &Commands{
		state:    state,
		Run:      NewRunCommand(state, flags),
		Schemes:  NewSchemesCommand(state),
		Targets:  NewTargetsCommand(state, flags),
		Failures: NewFailuresCommand(state),
		Version:  NewVersionCommand(version),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.state.Setup(flags)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		c.state.Sync()
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ProjectPath, "project-path", "C", "", "Directory containing the workspace, project or Package.swift")
	pf.StringVar(&flags.Workspace, "workspace", "", "Workspace to build (overrides auto-detection)")
	pf.StringVar(&flags.Project, "project", "", "Project to build (overrides auto-detection)")
	pf.StringVarP(&flags.Scheme, "scheme", "s", "", "Scheme to build (overrides auto-detection)")
	pf.StringVarP(&flags.Platform, "platform", "p", "", "Target platform: ios, macos or tvos")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Read unset environment variables from a .env file")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Build and test with DatadogSDKTesting injected",
		Long: "Fetch the DatadogSDKTesting framework, build the selected scheme for testing, " +
			"inject the Datadog environment into every .xctestrun descriptor and run the tests.",
		Args: cobra.NoArgs,
		RunE: c.Run.Execute,
	}
	rf := runCmd.Flags()
	rf.StringVar(&flags.SDK, "sdk", "", "SDK to build against (defaults to the platform SDK)")
	rf.StringVar(&flags.Destination, "destination", "", "xcodebuild destination (defaults to the platform simulator)")
	rf.StringVar(&flags.Configuration, "configuration", "", "Build configuration")
	rf.StringVar(&flags.ExtraParameters, "extra-parameters", "", "Extra arguments for xcodebuild or swift test, shell quoted")
	rf.StringVar(&flags.LibraryVersion, "library-version", "", "DatadogSDKTesting version (defaults to the latest release)")
	rf.StringVar(&flags.APIKey, "api-key", "", "Datadog API key (defaults to $DD_API_KEY)")
	rf.StringVar(&flags.ApplicationKey, "application-key", "", "Datadog application key (defaults to $DD_APPLICATION_KEY)")
	rf.StringVar(&flags.DescriptorWriter, "descriptor-writer", "", "How descriptors are edited: native or plutil")
	rf.BoolVar(&flags.KeepWorkDir, "keep-workdir", false, "Keep the temporary work directory")
	rf.BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "schemes",
		Short: "Show the selected project and its schemes",
		Args:  cobra.NoArgs,
		RunE:  c.Schemes.Execute,
	})

	targetsCmd := &cobra.Command{
		Use:   "targets <file.xctestrun>",
		Short: "List the targets of a descriptor and the variables they receive",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Targets.Execute,
	}
	targetsCmd.Flags().BoolVar(&flags.Inject, "inject", false, "Write the variables into the descriptor")
	targetsCmd.Flags().StringVar(&flags.APIKey, "api-key", "", "Datadog API key (defaults to $DD_API_KEY)")
	targetsCmd.Flags().StringVar(&flags.ApplicationKey, "application-key", "", "Datadog application key (defaults to $DD_APPLICATION_KEY)")
	targetsCmd.Flags().StringVar(&flags.DescriptorWriter, "descriptor-writer", "", "How descriptors are edited: native or plutil")
	rootCmd.AddCommand(targetsCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display the failed test runs of the last run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the ddtest version",
		Args:  cobra.NoArgs,
		// The version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run:               c.Version.Execute,
	})
}
