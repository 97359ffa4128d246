package packagemanager

import (
	"errors"

	"github.com/steelcutops/tmatesetup/tmatesetup/host"
)

var (
	ErrUnsupportedOS             = errors.New("unsupported operating system")
	ErrUnsupportedPackageManager = errors.New("unsupported package manager on Linux, please install tmate manually")
	ErrHomebrewMissing           = errors.New("Homebrew is not installed, please install Homebrew first")
	ErrChocolateyMissing         = errors.New("Chocolatey is not installed, please install Chocolatey or install tmate manually")
	ErrNoPackageManager          = errors.New("no package manager selected")
)

// LinuxPriority is the order in which Linux package managers are probed.
var LinuxPriority = []Kind{Apt, Pacman, Dnf, Yum, Zypper}

// Prober reports whether an executable is discoverable on the host.
type Prober interface {
	HasExecutable(name string) bool
}

// Detect selects exactly one package manager for osType, or fails. It only
// looks executables up; nothing is run.
func Detect(osType host.OSType, probe Prober) (Kind, error) {
	switch osType {
	case host.Linux:
		for _, kind := range LinuxPriority {
			if probe.HasExecutable(string(kind)) {
				return kind, nil
			}
		}
		return None, ErrUnsupportedPackageManager
	case host.Darwin:
		if probe.HasExecutable(string(Brew)) {
			return Brew, nil
		}
		return None, ErrHomebrewMissing
	case host.Windows:
		if probe.HasExecutable(string(Choco)) {
			return Choco, nil
		}
		return None, ErrChocolateyMissing
	default:
		return None, ErrUnsupportedOS
	}
}
