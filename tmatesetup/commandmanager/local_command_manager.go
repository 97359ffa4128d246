package commandmanager

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/steelcutops/tmatesetup/logger"
)

var (
	ErrSudoIncorrectPassword = errors.New("sudo: incorrect password provided")
	ErrSudoNotInSudoers      = errors.New("sudo: user is not in the sudoers file")
)

type LocalCommandManager struct {
	// SudoPassword is fed to `sudo -S` when set. Without it sudo is invoked
	// plainly and may prompt on the terminal.
	SudoPassword string
	// DisableSudo runs privileged commands directly, for hosts that are
	// already root and lack a sudo binary.
	DisableSudo bool
	// Stdout and Stderr receive the output of every command that does not
	// set its own writers.
	Stdout io.Writer
	Stderr io.Writer
	Logger logger.Logger
}

func (l *LocalCommandManager) Run(ctx context.Context, config CommandConfig) (CommandResult, error) {
	name, args := l.commandLine(config)
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	var stdout, stderr strings.Builder
	if config.Passthrough {
		cmd.Stdout = config.Stdout
		cmd.Stderr = config.Stderr
	} else {
		cmd.Stdout = teeWriter(&stdout, l.stream(config.Stdout, l.Stdout))
		cmd.Stderr = teeWriter(&stderr, l.stream(config.Stderr, l.Stderr))
	}
	cmd.Stdin = config.Stdin
	if config.Sudo && !l.DisableSudo && l.SudoPassword != "" {
		cmd.Stdin = strings.NewReader(l.SudoPassword + "\n")
	}

	l.log().Debug("Running command", "command", name, "args", strings.Join(args, " "))
	err := cmd.Run()

	result := CommandResult{
		Command:   strings.TrimSpace(name + " " + strings.Join(args, " ")),
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  time.Since(start),
		Timestamp: start,
	}
	l.log().Debug("Command finished", "command", result.Command, "exit_code", result.ExitCode, "duration", result.Duration)

	// sudo reports these on stderr and exits 1, which hides the real cause.
	if err != nil && name == "sudo" {
		switch {
		case strings.Contains(result.STDERR, "incorrect password"):
			err = ErrSudoIncorrectPassword
		case strings.Contains(result.STDERR, "is not in the sudoers file"):
			err = ErrSudoNotInSudoers
		}
	}

	if err != nil {
		return result, &CommandError{Command: name, Args: args, ExitCode: result.ExitCode, Err: err}
	}
	return result, nil
}

// commandLine returns the program and argument vector actually executed,
// with the sudo prefix applied.
func (l *LocalCommandManager) commandLine(config CommandConfig) (string, []string) {
	if !config.Sudo || l.DisableSudo {
		return config.Command, config.Args
	}
	prefix := []string{config.Command}
	if l.SudoPassword != "" {
		prefix = []string{"-S", config.Command}
	}
	return "sudo", append(prefix, config.Args...)
}

func (l *LocalCommandManager) log() logger.Logger {
	if l.Logger == nil {
		return logger.Discard()
	}
	return l.Logger
}

func (l *LocalCommandManager) stream(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

func teeWriter(capture *strings.Builder, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}

func getExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
