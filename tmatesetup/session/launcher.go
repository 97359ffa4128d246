package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	ptylib "github.com/creack/pty"
	"golang.org/x/term"

	"github.com/steelcutops/tmatesetup/logger"
	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/expectmanager"
)

const (
	DefaultBinary    = "tmate"
	DefaultStopGrace = 5 * time.Second
)

// Connection line names reported by a background session.
const (
	SSH         = "ssh session"
	SSHReadOnly = "ssh session read only"
	Web         = "web session"
	WebReadOnly = "web session read only"
)

// Handle is a running background tmate session.
type Handle interface {
	// Done is closed once the tmate process has exited.
	Done() <-chan struct{}
	Stop() error
}

type Launcher struct {
	Binary string
	// Foreground adds -F to attached runs. Background sessions always use it.
	Foreground bool
	// AuthorizedKeysFile restricts who may connect (tmate -a).
	AuthorizedKeysFile string
	StopGrace          time.Duration

	CommandManager cm.CommandManager
	Stdin          io.Reader
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         logger.Logger

	// OnConnection is called for each connection line a background session prints.
	OnConnection func(name, value string)
}

// Args returns the argument vector for tmate.
func (l *Launcher) Args(foreground bool) []string {
	var args []string
	if l.AuthorizedKeysFile != "" {
		args = append(args, "-a", l.AuthorizedKeysFile)
	}
	if foreground {
		args = append(args, "-F")
	}
	return args
}

func (l *Launcher) binary() string {
	if l.Binary == "" {
		return DefaultBinary
	}
	return l.Binary
}

// Run starts tmate attached to the caller's terminal and waits for it to exit.
func (l *Launcher) Run(ctx context.Context) error {
	if !isTerminal(l.Stdin) {
		l.log().Warn("stdin is not a terminal, tmate may refuse to start")
	}

	_, err := l.CommandManager.Run(ctx, cm.CommandConfig{
		Command:     l.binary(),
		Args:        l.Args(l.Foreground),
		Stdin:       l.Stdin,
		Stdout:      l.Stdout,
		Stderr:      l.Stderr,
		Passthrough: true,
	})
	return err
}

// Start launches tmate -F in the background under a pseudo-terminal and
// streams its output to Stdout. Platforms without pty support fall back to
// plain pipes.
func (l *Launcher) Start(ctx context.Context) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expect, err := l.connectionWatcher()
	if err != nil {
		return nil, err
	}

	out := io.Writer(expect)
	if l.Stdout != nil {
		out = io.MultiWriter(l.Stdout, expect)
	}

	name, args := l.binary(), l.Args(true)
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()

	s := &Session{
		cmd:    cmd,
		grace:  l.StopGrace,
		expect: expect,
		done:   make(chan struct{}),
		logger: l.log(),
	}

	ptyFile, err := ptylib.Start(cmd)
	switch {
	case errors.Is(err, ptylib.ErrUnsupported):
		l.log().Debug("pty unsupported, starting tmate with pipes")
		cmd = exec.Command(name, args...)
		cmd.Env = os.Environ()
		cmd.Stdout = out
		cmd.Stderr = out
		if err := cmd.Start(); err != nil {
			return nil, &cm.CommandError{Command: name, Args: args, ExitCode: -1, Err: err}
		}
		s.cmd = cmd
	case err != nil:
		return nil, &cm.CommandError{Command: name, Args: args, ExitCode: -1, Err: err}
	default:
		s.pty = ptyFile
		s.pumpDone = make(chan struct{})
		go s.pump(out)
	}

	l.log().Info("Started background tmate session", "pid", s.cmd.Process.Pid, "args", args)
	go s.reap()
	return s, nil
}

func (l *Launcher) connectionWatcher() (*expectmanager.ExpectManager, error) {
	var expectations []expectmanager.Expectation
	for _, name := range []string{SSH, SSHReadOnly, Web, WebReadOnly} {
		matcher, err := expectmanager.NewRegexMatcher(`^` + name + `: (.+)$`)
		if err != nil {
			return nil, fmt.Errorf("compiling %q matcher: %w", name, err)
		}
		expectations = append(expectations, expectmanager.Expectation{
			Name:    name,
			Matcher: matcher,
			OnMatch: func(value string) {
				l.log().Info("tmate connection available", "kind", name, "value", value)
				if l.OnConnection != nil {
					l.OnConnection(name, value)
				}
			},
		})
	}
	return expectmanager.NewExpectManager(expectations...), nil
}

func (l *Launcher) log() logger.Logger {
	if l.Logger == nil {
		return logger.Discard()
	}
	return l.Logger
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
