// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// maxLineSize bounds a single line of child output.
const maxLineSize = 1024 * 1024

// ErrProcessFailed is the sentinel error wrapped by ProcessError.
var ErrProcessFailed = errors.New("process failed")

type (
	// Command is an external program invocation.
	Command struct {
		Name string
		Args []string
		// Dir is the working directory of the process.
		Dir string
	}

	// Runner executes a Command to completion.
	Runner interface {
		Run(ctx context.Context, cmd Command) error
	}

	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ExecRunnerOption configures an ExecRunner.
	ExecRunnerOption func(*ExecRunner)

	// ExecRunner runs commands on the host. Standard output lines are logged at info
	// and standard error lines at warn, both drained while the process runs.
	ExecRunner struct {
		execCommand ExecCommandFunc
		logger      Logger
	}

	// ProcessError is returned when a process exits with a non-zero code.
	// It wraps ErrProcessFailed for errors.Is() compatibility.
	ProcessError struct {
		Command  string
		ExitCode int
	}
)

// String returns the command line as a shell would show it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// Unwrap returns ErrProcessFailed for errors.Is() compatibility.
func (e *ProcessError) Unwrap() error { return ErrProcessFailed }

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) ExecRunnerOption {
	return func(r *ExecRunner) {
		r.execCommand = fn
	}
}

// NewExecRunner creates a host process runner.
func NewExecRunner(logger Logger, opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{
		execCommand: exec.CommandContext,
		logger:      orNop(logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements Runner. The process is killed when ctx is canceled.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := r.execCommand(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("unable to run %s: %w", c.Name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("unable to run %s: %w", c.Name, err)
	}

	r.logger.Info("running", "cmd", c.String(), "dir", c.Dir)
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("unable to run %s: %w", c.Name, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		drain(stdout, r.logger.Info)
	}()
	go func() {
		defer wg.Done()
		drain(stderr, r.logger.Warn)
	}()
	wg.Wait()

	if err = cmd.Wait(); err != nil {
		if code, ok := ExitCode(err); ok {
			return &ProcessError{Command: c.Name, ExitCode: code}
		}
		return fmt.Errorf("unable to run %s: %w", c.Name, err)
	}
	return nil
}

// ExitCode extracts the exit code from an error returned by exec.Cmd.Wait.
// The boolean is false when err does not describe a process exit.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

func drain(r io.Reader, emit func(msg any, keyvals ...any)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	// Keep reading after an oversized line so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}
