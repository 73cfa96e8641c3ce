package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"ddtest/internal/config"
	"ddtest/internal/descriptor"
	"ddtest/internal/discovery"
	"ddtest/internal/domain"
	"ddtest/internal/environment"
	"ddtest/internal/framework"
	"ddtest/internal/parser"
	"ddtest/internal/storage"
)

const derivedDataDir = "DerivedData"

// FrameworkInstaller fetches the testing framework into a work directory
type FrameworkInstaller interface {
	Install(ctx context.Context, workDir, requested string) (framework.Framework, error)
}

// SchemeResolver picks the scheme to build
type SchemeResolver interface {
	Scheme(ctx context.Context, sel domain.BuildSelection, explicit string) (string, error)
}

// CoverageEditor removes code coverage overrides from test plans
type CoverageEditor interface {
	StripCoverageOverrides(root string) ([]string, error)
}

// DescriptorInjector writes variables into every target of a descriptor
type DescriptorInjector interface {
	InjectAll(ctx context.Context, file string, root *descriptor.Value, vars []environment.Variable) ([]descriptor.TargetPath, error)
}

// Reporter receives progress of a run for display
type Reporter interface {
	PrintSelection(sel domain.BuildSelection, scheme string)
	PrintDescriptorStart(index, total int, name string, targets int)
}

// Deps are the collaborators of a Driver
type Deps struct {
	Runner    *Runner
	Installer FrameworkInstaller
	Schemes   SchemeResolver
	TestPlans CoverageEditor
	Injector  DescriptorInjector
	Parser    parser.Parser
	Storage   storage.Storage
	Reporter  Reporter
	Catalog   environment.Catalog
	Env       environment.Snapshot
	Logger    *zap.Logger
}

// Driver builds the selected project against the testing framework, injects
// the environment catalog into every produced descriptor and runs the tests.
type Driver struct {
	config *config.Config
	Deps
}

// NewDriver creates a new Driver
func NewDriver(cfg *config.Config, deps Deps) *Driver {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Driver{config: cfg, Deps: deps}
}

// Run executes the whole pipeline. Setup, build, decode and injection errors
// abort the run. Test failures are collected per descriptor and returned
// together once every descriptor has been attempted; the report is returned
// in both cases.
func (d *Driver) Run(ctx context.Context) (*domain.RunReport, error) {
	start := time.Now()
	cfg := d.config

	extra, err := cfg.ExtraArgs()
	if err != nil {
		return nil, err
	}

	projectDir := cfg.GetProjectPath()
	sel, err := discovery.SelectProject(projectDir, cfg.Workspace, cfg.Project)
	if err != nil {
		return nil, err
	}
	d.Logger.Info("Selected build target", zap.String("kind", string(sel.Kind)), zap.String("path", sel.Path))

	if _, err := d.TestPlans.StripCoverageOverrides(projectDir); err != nil {
		return nil, fmt.Errorf("edit test plans: %w", err)
	}

	workDir, err := os.MkdirTemp(cfg.WorkDir, "ddtest-*")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer d.cleanup(workDir)

	fw, err := d.Installer.Install(ctx, workDir, cfg.LibraryVersion)
	if err != nil {
		return nil, err
	}

	report := &domain.RunReport{
		RunID:        uuid.NewString(),
		Mode:         sel.Kind,
		Selection:    sel,
		Platform:     cfg.GetPlatform().Name,
		FrameworkVer: fw.Version,
		Timestamp:    start.Format(time.RFC3339),
	}
	vars := d.Catalog.Resolve(d.Env)

	var runErr error
	if sel.Kind == domain.KindSwiftPackage {
		d.Reporter.PrintSelection(sel, "")
		runErr = d.runSwiftPackage(ctx, report, fw, vars, extra)
	} else {
		runErr = d.runXcodeProject(ctx, report, sel, fw, workDir, vars, extra)
	}

	duration := time.Since(start)
	report.Duration = duration.Round(time.Millisecond).String()
	report.DurationSeconds = duration.Seconds()

	var failed *multierror.Error
	if errors.As(runErr, &failed) || runErr == nil {
		if err := d.Storage.Save(report); err != nil {
			d.Logger.Warn("Failed to save run report", zap.Error(err))
		}
		return report, runErr
	}
	return nil, runErr
}

func (d *Driver) runSwiftPackage(ctx context.Context, report *domain.RunReport, fw framework.Framework, vars []environment.Variable, extra []string) error {
	result, err := d.Runner.SwiftTest(ctx, fw.SlicePath(d.config.GetPlatform()), environment.MergeEnviron(d.Env.Environ(), vars), extra)
	dr := d.descriptorResult(report.Selection.Path, "swift test", nil, vars, result, err)
	report.Descriptors = append(report.Descriptors, dr)
	if err != nil {
		var errs *multierror.Error
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", dr.Name, err))
		errs.ErrorFormat = formatFailures
		return errs
	}
	return nil
}

func (d *Driver) runXcodeProject(ctx context.Context, report *domain.RunReport, sel domain.BuildSelection, fw framework.Framework, workDir string, vars []environment.Variable, extra []string) error {
	scheme, err := d.Schemes.Scheme(ctx, sel, d.config.Scheme)
	if err != nil {
		return err
	}
	report.Scheme = scheme
	d.Reporter.PrintSelection(sel, scheme)

	xcconfig := filepath.Join(workDir, framework.XCConfigName)
	if err := framework.WriteXCConfig(xcconfig, fw); err != nil {
		return err
	}

	derivedData := filepath.Join(workDir, derivedDataDir)
	if _, err := d.Runner.BuildForTesting(ctx, sel, scheme, xcconfig, derivedData, extra); err != nil {
		return fmt.Errorf("build for testing: %w", err)
	}

	runs, err := discovery.FindTestRuns(derivedData)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return domain.NewConfigurationError("build of scheme %s produced no .xctestrun files", scheme)
	}

	var errs *multierror.Error
	for i, run := range runs {
		if err := ctx.Err(); err != nil {
			return err
		}

		root, err := descriptor.Decode(run.Path)
		if err != nil {
			return err
		}
		targets, err := d.Injector.InjectAll(ctx, run.Path, root, vars)
		if err != nil {
			return err
		}
		d.Reporter.PrintDescriptorStart(i+1, len(runs), run.Name, len(targets))

		result, err := d.Runner.TestWithoutBuilding(ctx, run.Path, extra)
		dr := d.descriptorResult(run.Path, run.Name, targets, vars, result, err)
		report.Descriptors = append(report.Descriptors, dr)
		if err != nil {
			d.Logger.Warn("Tests failed", zap.String("descriptor", run.Name), zap.Error(err))
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", run.Name, err))
		}
	}

	if errs != nil {
		errs.ErrorFormat = formatFailures
	}
	return errs.ErrorOrNil()
}

func (d *Driver) descriptorResult(path, name string, targets []descriptor.TargetPath, vars []environment.Variable, result domain.CommandResult, err error) domain.DescriptorResult {
	result.Success = err == nil
	if err != nil && result.Error == nil {
		result.Error = err
	}
	passed, failed := d.Parser.ParseTestCounts(result)

	dr := domain.DescriptorResult{
		Descriptor:      path,
		Name:            name,
		Success:         result.Success,
		Output:          result.Output,
		Duration:        result.Duration,
		DurationSeconds: result.Duration.Seconds(),
		PassedTests:     passed,
		FailedTests:     failed,
	}
	for _, t := range targets {
		dr.Targets = append(dr.Targets, string(t))
	}
	for _, v := range vars {
		dr.InjectedFields = append(dr.InjectedFields, v.Name)
	}
	if err != nil {
		dr.Error = err.Error()
		dr.Failures = d.Parser.ParseFailures(name, result)
	}
	return dr
}

func (d *Driver) cleanup(workDir string) {
	if d.config.KeepWorkDir {
		d.Logger.Info("Keeping work directory", zap.String("path", workDir))
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		d.Logger.Warn("Failed to remove work directory", zap.String("path", workDir), zap.Error(err))
	}
}

func formatFailures(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, "\t* "+err.Error())
	}
	return fmt.Sprintf("%d test run(s) failed:\n%s", len(errs), strings.Join(lines, "\n"))
}
