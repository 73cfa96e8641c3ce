package domain

import "time"

// CommandResult represents the outcome of one external tool invocation
type CommandResult struct {
	Success  bool          // Whether the tool exited with status 0
	Output   string        // Tail of the combined stdout/stderr
	Error    error         // Error if execution failed
	Duration time.Duration // Time taken to execute
}

// DescriptorResult is the outcome of injecting and testing one descriptor
type DescriptorResult struct {
	Descriptor      string        `json:"descriptor"`
	Name            string        `json:"name"`
	Targets         []string      `json:"targets"`
	InjectedFields  []string      `json:"injected_variables"`
	Success         bool          `json:"success"`
	Error           string        `json:"error,omitempty"`
	Output          string        `json:"output,omitempty"`
	Duration        time.Duration `json:"-"`
	DurationSeconds float64       `json:"duration_seconds"`
	PassedTests     int           `json:"passed_tests"`
	FailedTests     int           `json:"failed_tests"`
	Failures        []TestFailure `json:"failures,omitempty"`
}

// RunReport contains everything recorded about a single run
type RunReport struct {
	RunID           string             `json:"run_id"`
	Mode            ProjectKind        `json:"mode"`
	Selection       BuildSelection     `json:"selection"`
	Scheme          string             `json:"scheme,omitempty"`
	Platform        string             `json:"platform"`
	FrameworkVer    string             `json:"framework_version,omitempty"`
	Timestamp       string             `json:"timestamp"`
	Duration        string             `json:"duration"`
	DurationSeconds float64            `json:"duration_seconds"`
	Descriptors     []DescriptorResult `json:"descriptors"`
}

// Failed returns the descriptor results that did not pass.
func (r *RunReport) Failed() []DescriptorResult {
	var failed []DescriptorResult
	for _, d := range r.Descriptors {
		if !d.Success {
			failed = append(failed, d)
		}
	}
	return failed
}

// AllFailures flattens the parsed test failures of every descriptor.
func (r *RunReport) AllFailures() []TestFailure {
	var failures []TestFailure
	for _, d := range r.Descriptors {
		failures = append(failures, d.Failures...)
	}
	return failures
}
