package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"ddtest/internal/config"
	"ddtest/internal/descriptor"
	"ddtest/internal/domain"
	"ddtest/internal/environment"
)

const rowSeparator = "├─────────────────────────────────┼─────────────────────────────┤"

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg, out: color.Output}
}

// SetOutput redirects everything the formatter prints
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *Formatter) cyan(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(f.out, format+"\n", args...)
}

func (f *Formatter) green(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(f.out, format+"\n", args...)
}

func (f *Formatter) red(format string, args ...any) {
	color.New(color.FgRed).Fprintf(f.out, format+"\n", args...)
}

func (f *Formatter) yellow(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(f.out, format+"\n", args...)
}

// PrintSelection prints what is going to be built
func (f *Formatter) PrintSelection(sel domain.BuildSelection, scheme string) {
	switch sel.Kind {
	case domain.KindWorkspace:
		f.cyan("Workspace selected: %s", sel.Path)
	case domain.KindProject:
		f.cyan("Project selected: %s", sel.Path)
	case domain.KindSwiftPackage:
		f.cyan("Package.swift selected: %s", sel.Path)
	}
	if scheme != "" {
		f.cyan("Scheme selected: %s", scheme)
	}
}

// PrintSchemes prints the schemes of a container and marks the resolved one
func (f *Formatter) PrintSchemes(schemes []string, selected string) {
	f.green("Found %d scheme(s):", len(schemes))
	for i, s := range schemes {
		connector := "├──"
		if i == len(schemes)-1 {
			connector = "└──"
		}
		if s == selected {
			fmt.Fprintf(f.out, "%s %s %s\n", connector, color.YellowString(s), color.GreenString("(selected)"))
			continue
		}
		fmt.Fprintf(f.out, "%s %s\n", connector, s)
	}
}

// PrintDescriptorStart announces the test run of one descriptor
func (f *Formatter) PrintDescriptorStart(index, total int, name string, targets int) {
	fmt.Fprintln(f.out)
	f.cyan("▶ [%d/%d] %s (%d target(s))", index, total, name, targets)
}

// PrintTargets prints the targets of a descriptor and the variables each
// would receive. Credential values are masked.
func (f *Formatter) PrintTargets(file string, targets []descriptor.TargetPath, vars []environment.Variable) {
	if len(targets) == 0 {
		f.yellow("No injectable targets in %s", filepath.Base(file))
		return
	}

	f.green("Found %d target(s) in %s:\n", len(targets), filepath.Base(file))
	for i, target := range targets {
		isLastTarget := i == len(targets)-1
		if isLastTarget {
			f.cyan("└── %s", target)
		} else {
			f.cyan("├── %s", target)
		}

		for j, v := range vars {
			var prefix string
			isLastVar := j == len(vars)-1
			switch {
			case isLastTarget && isLastVar:
				prefix = "    └── "
			case isLastTarget:
				prefix = "    ├── "
			case isLastVar:
				prefix = "│   └── "
			default:
				prefix = "│   ├── "
			}
			fmt.Fprintf(f.out, "%s%s=%s\n", prefix, color.YellowString(v.Name), displayValue(v))
		}
	}
}

func displayValue(v environment.Variable) string {
	switch v.Name {
	case environment.APIKey, environment.ApplicationKey:
		if len(v.Value) <= 4 {
			return "****"
		}
		return "****" + v.Value[len(v.Value)-4:]
	}
	return v.Value
}

// PrintSummary displays the statistics of a finished run
func (f *Formatter) PrintSummary(report *domain.RunReport) {
	passedTests, failedTests := 0, 0
	for _, d := range report.Descriptors {
		passedTests += d.PassedTests
		failedTests += d.FailedTests
	}
	failed := report.Failed()

	fmt.Fprint(f.out, "\n")
	f.cyan("╔═══════════════════════════════════════════════════════════════╗")
	f.cyan("║                    Test Execution Statistics                  ║")
	f.cyan("╚═══════════════════════════════════════════════════════════════╝\n")

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	rows := []struct {
		label string
		value string
		attr  color.Attribute
	}{
		{"Mode", string(report.Mode), color.FgWhite},
		{"Scheme", orDash(report.Scheme), color.FgWhite},
		{"Platform", report.Platform, color.FgWhite},
		{"Framework", orDash(report.FrameworkVer), color.FgWhite},
		{"Test Runs", fmt.Sprint(len(report.Descriptors)), color.FgWhite},
		{"Failed Test Runs", fmt.Sprint(len(failed)), color.FgRed},
		{"Passed Tests", humanize.Comma(int64(passedTests)), color.FgGreen},
		{"Failed Tests", humanize.Comma(int64(failedTests)), color.FgRed},
		{"Duration", fmt.Sprintf("%.2fs", report.DurationSeconds), color.FgWhite},
		{"Timestamp", report.Timestamp, color.FgWhite},
	}
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		color.New(row.attr).Fprintf(f.out, "%-27s │\n", row.value)
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, rowSeparator)
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if len(failed) == 0 {
		f.green("✓ All test runs passed!")
		return
	}
	f.red("✗ %d test run(s) failed with %d test case failure(s)", len(failed), len(report.AllFailures()))
	fmt.Fprintln(f.out)
	f.printFailedTree(failed)
}

// printFailedTree prints failing descriptors, their suites and test cases
func (f *Formatter) printFailedTree(failed []domain.DescriptorResult) {
	for i, d := range failed {
		isLastDescriptor := i == len(failed)-1
		branch, indent := "├── ", "│   "
		if isLastDescriptor {
			branch, indent = "└── ", "    "
		}
		f.yellow("%s%s", branch, d.Name)
		if len(d.Failures) == 0 {
			f.red("%s└── %s", indent, orDash(d.Error))
			continue
		}

		bySuite := make(map[string][]domain.TestFailure)
		for _, failure := range d.Failures {
			bySuite[failure.Suite] = append(bySuite[failure.Suite], failure)
		}
		suites := make([]string, 0, len(bySuite))
		for s := range bySuite {
			suites = append(suites, s)
		}
		sort.Strings(suites)

		for j, suite := range suites {
			isLastSuite := j == len(suites)-1
			suiteBranch, suiteIndent := "├── ", "│   "
			if isLastSuite {
				suiteBranch, suiteIndent = "└── ", "    "
			}
			f.cyan("%s%s%s", indent, suiteBranch, suite)
			cases := bySuite[suite]
			for k, failure := range cases {
				caseBranch := "├── "
				if k == len(cases)-1 {
					caseBranch = "└── "
				}
				f.red("%s%s%s%s", indent, suiteIndent, caseBranch, failure.TestName)
			}
		}
	}
}

func orDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}
