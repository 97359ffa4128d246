package host

import "runtime"

// OSType is the operating system family the installer knows how to handle.
type OSType string

const (
	Linux   OSType = "Linux"
	Darwin  OSType = "Darwin"
	Windows OSType = "Windows"
	Other   OSType = "Other"
)

// OSTypeFromGOOS maps a GOOS value onto an OSType.
func OSTypeFromGOOS(goos string) OSType {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Other
	}
}

// CurrentOSType returns the OSType of the running process.
func CurrentOSType() OSType {
	return OSTypeFromGOOS(runtime.GOOS)
}
