package shell

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// maxLineSize bounds a single line of tool output; JSON metadata lines can be large.
const maxLineSize = 16 * 1024 * 1024

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Stream runs the command and calls onLine for every line written to
	// stdout or stderr, in order, on the calling goroutine.
	Stream(ctx context.Context, onLine func(line string), name string, args ...string) error
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return out, &ExitError{Err: err, Stderr: string(exitErr.Stderr)}
		}
		return out, err
	}
	return out, nil
}

// Stream executes a command, merging stdout and stderr into one line stream
func (r *ExecCommandRunner) Stream(ctx context.Context, onLine func(line string), name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open output pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		return err
	}
	if scanErr != nil {
		return fmt.Errorf("failed to read command output: %w", scanErr)
	}
	return nil
}

// ExitError carries the stderr text of a failed command
type ExitError struct {
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

var _ CommandRunner = (*ExecCommandRunner)(nil)
