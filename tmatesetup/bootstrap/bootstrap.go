// Package bootstrap runs a whole installation: detect the host's package
// manager, install tmate with it, then launch tmate.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/steelcutops/tmatesetup/logger"
	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/environmentmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/host"
	"github.com/steelcutops/tmatesetup/tmatesetup/packagemanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/session"
)

const (
	DefaultPackage    = "tmate"
	DefaultCIVariable = "CI"
)

// CIMode decides what happens after installation inside CI.
type CIMode string

const (
	// CIModeSkip installs tmate and launches nothing.
	CIModeSkip CIMode = "skip"
	// CIModeKeepAlive launches tmate in the background and waits until interrupted.
	CIModeKeepAlive CIMode = "keep-alive"
)

func ParseCIMode(s string) (CIMode, error) {
	switch CIMode(s) {
	case CIModeSkip, CIModeKeepAlive:
		return CIMode(s), nil
	default:
		return "", fmt.Errorf("invalid CI mode %q: want %q or %q", s, CIModeSkip, CIModeKeepAlive)
	}
}

type Config struct {
	Package           string
	CIVariable        string
	CIMode            CIMode
	KeepAliveInterval time.Duration
}

// Launcher starts tmate. session.Launcher is the real implementation.
type Launcher interface {
	Run(ctx context.Context) error
	Start(ctx context.Context) (session.Handle, error)
}

type Bootstrapper struct {
	Config
	Host           *host.Host
	CommandManager cm.CommandManager
	Environment    environmentmanager.EnvironmentManager
	Launcher       Launcher
	Reporter       *Reporter
	Logger         logger.Logger
}

// Run executes Detect → Install → Launch. Every failure is returned as is;
// an interrupt during the keep-alive wait is not a failure.
func (b *Bootstrapper) Run(ctx context.Context) error {
	b.Reporter.Info("Detected OS: " + b.Host.DisplayName())
	if dist := b.Host.Distribution; dist != (host.Distribution{}) {
		b.log().Info("Detected distribution", "distribution", dist.String(), "id", dist.ID)
	}

	pm, err := b.Detect()
	if err != nil {
		return err
	}

	if err := b.Install(ctx, pm); err != nil {
		return err
	}

	return b.Launch(ctx)
}

// Detect selects the package manager for the host.
func (b *Bootstrapper) Detect() (packagemanager.PackageManager, error) {
	kind, err := packagemanager.Detect(b.Host.OSType, b.Host)
	if errors.Is(err, packagemanager.ErrUnsupportedOS) {
		return nil, fmt.Errorf("%w: %s", err, b.Host.Platform)
	}
	if err != nil {
		return nil, err
	}

	b.log().Debug("Selected package manager", "manager", kind)
	return packagemanager.New(kind, b.CommandManager)
}

// Install refreshes the package index and installs the package. A failed
// update means install is never attempted.
func (b *Bootstrapper) Install(ctx context.Context, pm packagemanager.PackageManager) error {
	info := pm.Info()
	b.Reporter.Info("Using " + info.Method + "...")

	if err := pm.Update(ctx); err != nil {
		return fmt.Errorf("error during %s installation: %w", info.Family, err)
	}
	if err := pm.Install(ctx, b.pkg()); err != nil {
		return fmt.Errorf("error during %s installation: %w", info.Family, err)
	}

	b.Reporter.Success(fmt.Sprintf("%s installed successfully on %s!", b.pkg(), info.Target))
	return nil
}

// Launch starts tmate according to the CI state and mode.
func (b *Bootstrapper) Launch(ctx context.Context) error {
	ci := b.InCI()
	if ci && b.CIMode != CIModeKeepAlive {
		b.Reporter.Notice(fmt.Sprintf("CI environment detected (%s is set), skipping interactive tmate launch.", b.ciVariable()))
		return nil
	}

	b.Reporter.Info("Starting tmate...")

	if !ci {
		if err := b.Launcher.Run(ctx); err != nil {
			return fmt.Errorf("error running tmate: %w", err)
		}
		return nil
	}

	h, err := b.Launcher.Start(ctx)
	if err != nil {
		return fmt.Errorf("error running tmate: %w", err)
	}

	b.Reporter.Notice("Keeping the job alive until interrupted.")
	session.KeepAlive(ctx, b.KeepAliveInterval, b.log(), h.Done())
	b.Reporter.Info("Keep-alive interrupted, exiting.")

	if err := h.Stop(); err != nil {
		b.log().Warn("Failed to stop tmate", "error", err)
	}
	return nil
}

// InCI reports whether the CI indicator variable is present, whatever its value.
func (b *Bootstrapper) InCI() bool {
	if b.Environment == nil {
		return false
	}
	_, ok := b.Environment.Lookup(b.ciVariable())
	return ok
}

func (b *Bootstrapper) pkg() string {
	if b.Package == "" {
		return DefaultPackage
	}
	return b.Package
}

func (b *Bootstrapper) ciVariable() string {
	if b.CIVariable == "" {
		return DefaultCIVariable
	}
	return b.CIVariable
}

func (b *Bootstrapper) log() logger.Logger {
	if b.Logger == nil {
		return logger.Discard()
	}
	return b.Logger
}
