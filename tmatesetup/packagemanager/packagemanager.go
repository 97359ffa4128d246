package packagemanager

import (
	"context"
	"fmt"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

// Kind identifies a package manager. The value doubles as the name of the
// executable probed for on the search path.
type Kind string

const (
	None   Kind = ""
	Apt    Kind = "apt"
	Pacman Kind = "pacman"
	Dnf    Kind = "dnf"
	Yum    Kind = "yum"
	Zypper Kind = "zypper"
	Brew   Kind = "brew"
	Choco  Kind = "choco"
)

// Info carries the wording used when reporting on an installation.
type Info struct {
	// Family names the installation in error messages, e.g. "apt" or "Red Hat".
	Family string
	// Method is printed before installing, e.g. "apt-based installation (Debian/Ubuntu)".
	Method string
	// Target is printed after installing, e.g. "an apt-based system".
	Target string
}

type PackageManager interface {
	Kind() Kind
	Info() Info
	// Update refreshes the package index. Managers without a separate
	// refresh step return nil without running anything.
	Update(ctx context.Context) error
	Install(ctx context.Context, pkg string) error
}

// New returns the handler for kind.
func New(kind Kind, commandManager cm.CommandManager) (PackageManager, error) {
	switch kind {
	case Apt:
		return &AptPackageManager{CommandManager: commandManager}, nil
	case Pacman:
		return &PacmanPackageManager{CommandManager: commandManager}, nil
	case Dnf:
		return &DnfPackageManager{CommandManager: commandManager}, nil
	case Yum:
		return &YumPackageManager{CommandManager: commandManager}, nil
	case Zypper:
		return &ZypperPackageManager{CommandManager: commandManager}, nil
	case Brew:
		return &BrewPackageManager{CommandManager: commandManager}, nil
	case Choco:
		return &ChocoPackageManager{CommandManager: commandManager}, nil
	case None:
		return nil, ErrNoPackageManager
	default:
		return nil, fmt.Errorf("unknown package manager %q", string(kind))
	}
}

// run executes a single package manager command and discards its captured
// output; the command manager already streams it.
func run(ctx context.Context, commandManager cm.CommandManager, config cm.CommandConfig) error {
	_, err := commandManager.Run(ctx, config)
	return err
}
