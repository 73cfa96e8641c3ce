package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ddtest/internal/cli"
	"ddtest/internal/cli/commands"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ddtest",
		Short: "Run Apple tests with Datadog Test Visibility",
		Long: `ddtest builds an Xcode workspace, project or Swift package against the
DatadogSDKTesting framework and injects the Datadog environment into every
test run, so results are reported to Datadog CI Visibility.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var flags cli.Flags
	cmds := commands.NewCommands(commands.NewState(), &flags, version)
	cmds.Register(rootCmd, &flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
