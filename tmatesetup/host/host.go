package host

import (
	"os/exec"
	"runtime"

	"github.com/steelcutops/tmatesetup/logger"
)

// LookPathFunc resolves an executable name against the search path.
type LookPathFunc func(file string) (string, error)

// Host describes the machine the installer runs on.
type Host struct {
	OSType       OSType
	Platform     string
	Distribution Distribution

	lookPath      LookPathFunc
	osReleasePath string
	logger        logger.Logger
}

// NewHost inspects the local machine. Options override any detected value.
func NewHost(options ...HostOption) *Host {
	h := &Host{
		lookPath:      exec.LookPath,
		osReleasePath: DefaultOSReleasePath,
		logger:        logger.Discard(),
	}

	for _, option := range options {
		option(h)
	}

	if h.Platform == "" {
		h.Platform = runtime.GOOS
	}
	if h.OSType == "" {
		h.OSType = OSTypeFromGOOS(h.Platform)
	}

	if h.OSType == Linux && h.osReleasePath != "" {
		dist, err := ReadOSRelease(h.osReleasePath)
		if err != nil {
			h.logger.Debug("Could not read os-release", "path", h.osReleasePath, "error", err)
		} else {
			h.Distribution = dist
		}
	}

	return h
}

// DisplayName is the OS name printed to the user.
func (h *Host) DisplayName() string {
	if h.OSType == Other {
		return h.Platform
	}
	return string(h.OSType)
}

func (h *Host) LookPath(name string) (string, error) {
	return h.lookPath(name)
}

// HasExecutable reports whether name is discoverable on the search path.
func (h *Host) HasExecutable(name string) bool {
	path, err := h.lookPath(name)
	if err != nil {
		return false
	}
	h.logger.Debug("Found executable", "name", name, "path", path)
	return true
}
