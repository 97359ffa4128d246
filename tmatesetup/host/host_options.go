package host

import "github.com/steelcutops/tmatesetup/logger"

type HostOption func(*Host)

// WithOS returns a HostOption that pins the OS family instead of detecting it.
func WithOS(os OSType) HostOption {
	return func(host *Host) {
		host.OSType = os
	}
}

// WithPlatform returns a HostOption that sets the raw platform name reported to the user.
func WithPlatform(platform string) HostOption {
	return func(host *Host) {
		host.Platform = platform
	}
}

// WithLookPath returns a HostOption that replaces executable discovery.
func WithLookPath(lookPath LookPathFunc) HostOption {
	return func(host *Host) {
		host.lookPath = lookPath
	}
}

// WithOSReleasePath returns a HostOption that reads distribution info from path.
func WithOSReleasePath(path string) HostOption {
	return func(host *Host) {
		host.osReleasePath = path
	}
}

func WithLogger(l logger.Logger) HostOption {
	return func(host *Host) {
		host.logger = l
	}
}
