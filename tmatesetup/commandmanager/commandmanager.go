package commandmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// CommandConfig describes a single child process invocation.
type CommandConfig struct {
	Command string
	Args    []string
	Sudo    bool
	Env     []string

	// Stdin, Stdout and Stderr are wired to the child when set. Output is
	// captured into the CommandResult either way.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Passthrough skips capturing output, for interactive programs that
	// own the terminal.
	Passthrough bool
}

// CommandResult encapsulates the results from a command execution.
type CommandResult struct {
	Command   string
	STDOUT    string
	STDERR    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// CommandManager runs commands on the local system.
type CommandManager interface {
	Run(ctx context.Context, config CommandConfig) (CommandResult, error)
}

// CommandError is returned when a command could not be started or exited
// with a non-zero status.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	var exitErr *exec.ExitError
	if e.Err == nil || errors.As(e.Err, &exitErr) {
		return fmt.Sprintf("command %q exited with status %d", line, e.ExitCode)
	}
	return fmt.Sprintf("command %q failed: %v", line, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
