package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDescriptor is returned when a test-run descriptor cannot be read or parsed.
var ErrMalformedDescriptor = errors.New("malformed test-run descriptor")

// ConfigurationError reports a setup problem that no retry can fix
// (no buildable project, no scheme, invalid input).
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigurationError creates a ConfigurationError with a formatted reason
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ExternalToolError reports a non-zero exit (or start failure) of an external tool.
type ExternalToolError struct {
	Command  string
	Args     []string
	ExitCode int
	Err      error
}

func (e *ExternalToolError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s exited with code %d", cmdline, e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", cmdline, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// ArtifactFetchError reports a failure to locate or download the testing framework.
type ArtifactFetchError struct {
	URL string
	Err error
}

func (e *ArtifactFetchError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("fetch testing framework: %v", e.Err)
	}
	return fmt.Sprintf("fetch testing framework from %s: %v", e.URL, e.Err)
}

func (e *ArtifactFetchError) Unwrap() error {
	return e.Err
}

// InjectionError identifies the descriptor field whose write failed.
type InjectionError struct {
	Descriptor string
	Field      string
	Err        error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject %s into %s: %v", e.Field, e.Descriptor, e.Err)
}

func (e *InjectionError) Unwrap() error {
	return e.Err
}
