package execution

import (
	"context"
	"io"

	"ddtest/internal/config"
	"ddtest/internal/domain"
	"ddtest/internal/framework"
	"ddtest/internal/process"
)

const (
	xcodebuild = "xcodebuild"
	swift      = "swift"
)

// Runner invokes xcodebuild and swift test for the configured platform
type Runner struct {
	config *config.Config
	proc   process.Runner
	stream io.Writer
}

// NewRunner creates a new Runner. Tool output is streamed to stream.
func NewRunner(cfg *config.Config, proc process.Runner, stream io.Writer) *Runner {
	return &Runner{config: cfg, proc: proc, stream: stream}
}

// BuildForTestingArgs returns the arguments of the build-for-testing phase.
func BuildForTestingArgs(cfg *config.Config, sel domain.BuildSelection, scheme, xcconfig, derivedData string, extra []string) []string {
	args := []string{"build-for-testing", "-enableCodeCoverage", "YES", "-xcconfig", xcconfig}
	args = append(args, sel.XcodebuildArgs()...)
	args = append(args,
		"-configuration", cfg.Configuration,
		"-scheme", scheme,
		"-sdk", cfg.GetSDK(),
		"-derivedDataPath", derivedData,
		"-destination", cfg.GetDestination(),
	)
	return append(args, extra...)
}

// TestWithoutBuildingArgs returns the arguments of the test phase for one
// descriptor.
func TestWithoutBuildingArgs(cfg *config.Config, testRun string, extra []string) []string {
	args := []string{"test-without-building", "-enableCodeCoverage", "YES",
		"-xctestrun", testRun,
		"-destination", cfg.GetDestination(),
	}
	return append(args, extra...)
}

// SwiftTestArgs returns the arguments of the single swift test invocation
// that builds a package against the framework slice and runs its tests.
func SwiftTestArgs(slice string, extra []string) []string {
	args := []string{"test", "--enable-code-coverage",
		"-Xswiftc", "-F" + slice,
		"-Xswiftc", "-framework", "-Xswiftc", framework.Name,
		"-Xlinker", "-rpath", "-Xlinker", slice,
	}
	return append(args, extra...)
}

// BuildForTesting compiles the scheme and produces .xctestrun descriptors
// under derivedData.
func (r *Runner) BuildForTesting(ctx context.Context, sel domain.BuildSelection, scheme, xcconfig, derivedData string, extra []string) (domain.CommandResult, error) {
	return r.proc.Run(ctx, process.Command{
		Name:   xcodebuild,
		Args:   BuildForTestingArgs(r.config, sel, scheme, xcconfig, derivedData, extra),
		Dir:    r.config.GetProjectPath(),
		Stream: r.stream,
	})
}

// TestWithoutBuilding runs the tests described by one descriptor.
func (r *Runner) TestWithoutBuilding(ctx context.Context, testRun string, extra []string) (domain.CommandResult, error) {
	return r.proc.Run(ctx, process.Command{
		Name:   xcodebuild,
		Args:   TestWithoutBuildingArgs(r.config, testRun, extra),
		Dir:    r.config.GetProjectPath(),
		Stream: r.stream,
	})
}

// SwiftTest builds and tests a Swift package with env as its environment.
func (r *Runner) SwiftTest(ctx context.Context, slice string, env, extra []string) (domain.CommandResult, error) {
	return r.proc.Run(ctx, process.Command{
		Name:   swift,
		Args:   SwiftTestArgs(slice, extra),
		Dir:    r.config.GetProjectPath(),
		Env:    env,
		Stream: r.stream,
	})
}
