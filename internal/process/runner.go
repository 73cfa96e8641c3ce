package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ddtest/internal/domain"
)

const (
	// DefaultTailLines is how many output lines are kept for the run report
	DefaultTailLines = 200
	maxLineSize      = 4 * 1024 * 1024
	redacted         = "****"
)

// Command describes one external tool invocation
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env replaces the process environment when non-nil.
	Env []string
	// Stream receives every output line. Nil discards them.
	Stream io.Writer
	// Capture receives stdout lines only, for tools whose output is parsed.
	Capture io.Writer
	// Sensitive hides arguments from logs and errors.
	Sensitive bool
}

// String renders the command line for logging.
func (c Command) String() string {
	if c.Sensitive {
		return c.Name + " " + redacted
	}
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes external tools
type Runner interface {
	Run(ctx context.Context, cmd Command) (domain.CommandResult, error)
}

// ExecRunner runs commands with os/exec, streaming output line by line
type ExecRunner struct {
	logger    *zap.Logger
	tailLines int
}

// NewExecRunner creates a new ExecRunner
func NewExecRunner(logger *zap.Logger, tailLines int) *ExecRunner {
	if tailLines <= 0 {
		tailLines = DefaultTailLines
	}
	return &ExecRunner{logger: logger, tailLines: tailLines}
}

// Run executes the command and waits for it. A non-zero exit is returned as
// *domain.ExternalToolError together with the captured result.
func (r *ExecRunner) Run(ctx context.Context, c Command) (domain.CommandResult, error) {
	r.logger.Debug("Running command", zap.String("command", c.String()), zap.String("dir", c.Dir))

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return domain.CommandResult{Error: err}, r.toolError(c, -1, fmt.Errorf("create stdout pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return domain.CommandResult{Error: err}, r.toolError(c, -1, fmt.Errorf("create stderr pipe: %w", err))
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.CommandResult{Error: err}, r.toolError(c, -1, err)
	}

	tail := newTailBuffer(r.tailLines)
	var streamMu sync.Mutex
	var scanWg sync.WaitGroup

	scan := func(pipe io.Reader, capture io.Writer) {
		defer scanWg.Done()
		scanner := bufio.NewScanner(pipe)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := scanner.Text()
			tail.add(line)
			if capture != nil {
				fmt.Fprintln(capture, line)
			}
			if c.Stream != nil {
				streamMu.Lock()
				fmt.Fprintln(c.Stream, line)
				streamMu.Unlock()
			}
		}
	}

	scanWg.Add(2)
	go scan(stdout, c.Capture)
	go scan(stderr, nil)

	// Pipes must be drained before Wait closes them.
	scanWg.Wait()
	waitErr := cmd.Wait()

	result := domain.CommandResult{
		Success:  waitErr == nil,
		Output:   tail.String(),
		Error:    waitErr,
		Duration: time.Since(start),
	}
	if waitErr == nil {
		r.logger.Debug("Command finished", zap.String("command", c.Name), zap.Duration("duration", result.Duration))
		return result, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return result, r.toolError(c, exitCode, waitErr)
}

func (r *ExecRunner) toolError(c Command, exitCode int, err error) error {
	args := c.Args
	if c.Sensitive {
		args = []string{redacted}
	}
	r.logger.Debug("Command failed", zap.String("command", c.String()), zap.Int("exit_code", exitCode), zap.Error(err))
	return &domain.ExternalToolError{Command: c.Name, Args: args, ExitCode: exitCode, Err: err}
}

// tailBuffer keeps the last N lines written to it
type tailBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}
