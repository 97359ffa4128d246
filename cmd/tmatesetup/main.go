package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/steelcutops/tmatesetup/logger"
	"github.com/steelcutops/tmatesetup/tmatesetup/bootstrap"
	"github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/environmentmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/host"
	"github.com/steelcutops/tmatesetup/tmatesetup/session"
)

// Version is overridden at build time.
var Version = "dev"

const (
	exitSuccess = 0
	exitFailure = 1
)

type flags struct {
	AuthorizedKeys     string
	CIMode             string
	CIVariable         string
	Debug              bool
	Foreground         bool
	KeepAliveInterval  time.Duration
	LogFileName        string
	NoSudo             bool
	SudoPasswordPrompt bool
}

// runBootstrap is replaced in tests so no package manager is ever invoked.
var runBootstrap = func(ctx context.Context, b *bootstrap.Bootstrapper) error {
	return b.Run(ctx)
}

var errNotATerminal = errors.New("sudo password prompt needs a terminal on stdin")

func main() {
	runMain(os.Args, os.Stdin, os.Stdout, os.Stderr, os.Exit)
}

// runMain executes the CLI and exits 0 on success, 1 on any failure.
func runMain(args []string, stdin io.Reader, stdout, stderr io.Writer, exit func(int)) {
	cmd := newRootCmd(stdin, stdout, stderr)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		(&bootstrap.Reporter{Out: stdout}).Error(err)
		exit(exitFailure)
		return
	}
	exit(exitSuccess)
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "tmatesetup",
		Short: "Install tmate with the host's package manager and start a session",
		Long: `tmatesetup detects the operating system and package manager, installs tmate,
then starts it. Inside CI (the CI variable is set) the launch is skipped, or with
--ci-mode keep-alive tmate runs in the background and the job is kept alive until
interrupted so someone can attach to the printed SSH session.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fl := cmd.Flags()
	fl.StringVar(&f.AuthorizedKeys, "authorized-keys", "", "Only allow the SSH keys in this authorized_keys file to connect")
	fl.StringVar(&f.CIMode, "ci-mode", string(bootstrap.CIModeSkip), "Behavior inside CI: skip or keep-alive")
	fl.StringVar(&f.CIVariable, "ci-env", bootstrap.DefaultCIVariable, "Environment variable whose presence marks a CI run")
	fl.BoolVar(&f.Debug, "debug", false, "Enable debug log level")
	fl.BoolVarP(&f.Foreground, "foreground", "F", false, "Run tmate in foreground mode, printing connection details")
	fl.DurationVar(&f.KeepAliveInterval, "keep-alive-interval", session.DefaultKeepAliveInterval, "Heartbeat interval while keeping a CI job alive")
	fl.StringVar(&f.LogFileName, "log", "", "Append logs to this file instead of stderr")
	fl.BoolVar(&f.NoSudo, "no-sudo", false, "Run package manager commands without sudo")
	fl.BoolVar(&f.SudoPasswordPrompt, "sudo-password", false, "Prompt for the sudo password")

	return cmd
}

func run(ctx context.Context, f *flags, stdin io.Reader, stdout, stderr io.Writer) error {
	mode, err := bootstrap.ParseCIMode(f.CIMode)
	if err != nil {
		return err
	}

	log, closeLog, err := configureLogger(f, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	var authorizedKeys string
	if f.AuthorizedKeys != "" {
		authorizedKeys, err = session.ValidateAuthorizedKeys(f.AuthorizedKeys)
		if err != nil {
			return fmt.Errorf("invalid authorized keys: %w", err)
		}
	}

	var sudoPassword string
	if f.SudoPasswordPrompt {
		sudoPassword, err = readSudoPassword(stdin, stdout)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, session.InterruptSignals()...)
	defer stop()

	reporter := &bootstrap.Reporter{Out: stdout}
	cmdManager := &commandmanager.LocalCommandManager{
		SudoPassword: sudoPassword,
		DisableSudo:  f.NoSudo,
		Stdout:       stdout,
		Stderr:       stderr,
		Logger:       log,
	}

	b := &bootstrap.Bootstrapper{
		Config: bootstrap.Config{
			Package:           bootstrap.DefaultPackage,
			CIVariable:        f.CIVariable,
			CIMode:            mode,
			KeepAliveInterval: f.KeepAliveInterval,
		},
		Host:           host.NewHost(host.WithLogger(log)),
		CommandManager: cmdManager,
		Environment:    environmentmanager.OSEnvironmentManager{},
		Launcher: &session.Launcher{
			Foreground:         f.Foreground,
			AuthorizedKeysFile: authorizedKeys,
			CommandManager:     cmdManager,
			Stdin:              stdin,
			Stdout:             stdout,
			Stderr:             stderr,
			Logger:             log,
			OnConnection: func(name, value string) {
				reporter.Highlight(name + ": " + value)
			},
		},
		Reporter: reporter,
		Logger:   log,
	}

	return runBootstrap(ctx, b)
}

func configureLogger(f *flags, stderr io.Writer) (logger.Logger, func(), error) {
	l := logger.NewWithOutput(stderr)
	l.SetDebug(f.Debug)
	closeLog := func() {}

	if f.LogFileName != "" {
		path, err := homedir.Expand(f.LogFileName)
		if err != nil {
			return nil, nil, err
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		l.SetOutput(file)
		closeLog = func() { file.Close() }
	}

	log := l.With("run", uuid.NewString())
	log.Debug("Debug mode enabled")
	return log, closeLog, nil
}

func readSudoPassword(stdin io.Reader, stdout io.Writer) (string, error) {
	file, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return "", errNotATerminal
	}

	fmt.Fprint(stdout, "Enter the sudo password: ")
	passwordBytes, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("failed to read sudo password: %w", err)
	}
	return string(passwordBytes), nil
}
