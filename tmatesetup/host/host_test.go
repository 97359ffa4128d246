package host

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ubuntuOSRelease = `PRETTY_NAME="Ubuntu 22.04.3 LTS"
NAME="Ubuntu"
VERSION_ID="22.04"
VERSION="22.04.3 LTS (Jammy Jellyfish)"
ID=ubuntu
ID_LIKE=debian
HOME_URL="https://www.ubuntu.com/"
`

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fakeLookPath(available ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, a := range available {
			if a == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestOSTypeFromGOOS(t *testing.T) {
	assert.Equal(t, Linux, OSTypeFromGOOS("linux"))
	assert.Equal(t, Darwin, OSTypeFromGOOS("darwin"))
	assert.Equal(t, Windows, OSTypeFromGOOS("windows"))
	assert.Equal(t, Other, OSTypeFromGOOS("freebsd"))
	assert.Equal(t, Other, OSTypeFromGOOS(""))
}

func TestReadOSRelease(t *testing.T) {
	dist, err := ReadOSRelease(writeOSRelease(t, ubuntuOSRelease))
	require.NoError(t, err)

	assert.Equal(t, Distribution{
		ID:         "ubuntu",
		IDLike:     "debian",
		Name:       "Ubuntu",
		PrettyName: "Ubuntu 22.04.3 LTS",
		VersionID:  "22.04",
	}, dist)
	assert.Equal(t, "Ubuntu 22.04.3 LTS", dist.String())
}

func TestReadOSReleaseMissing(t *testing.T) {
	_, err := ReadOSRelease(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestDistributionString(t *testing.T) {
	assert.Equal(t, "Arch Linux", Distribution{Name: "Arch Linux"}.String())
	assert.Equal(t, "Fedora Linux 39", Distribution{Name: "Fedora Linux", VersionID: "39"}.String())
	assert.Equal(t, "alpine", Distribution{ID: "alpine"}.String())
}

func TestNewHostLinux(t *testing.T) {
	h := NewHost(
		WithPlatform("linux"),
		WithOSReleasePath(writeOSRelease(t, ubuntuOSRelease)),
		WithLookPath(fakeLookPath("apt")),
	)

	assert.Equal(t, Linux, h.OSType)
	assert.Equal(t, "Linux", h.DisplayName())
	assert.Equal(t, "ubuntu", h.Distribution.ID)
	assert.True(t, h.HasExecutable("apt"))
	assert.False(t, h.HasExecutable("pacman"))
}

func TestNewHostMissingOSReleaseIsNotFatal(t *testing.T) {
	h := NewHost(
		WithPlatform("linux"),
		WithOSReleasePath(filepath.Join(t.TempDir(), "nope")),
	)

	assert.Equal(t, Linux, h.OSType)
	assert.Equal(t, Distribution{}, h.Distribution)
}

func TestNewHostOther(t *testing.T) {
	h := NewHost(WithPlatform("plan9"))

	assert.Equal(t, Other, h.OSType)
	assert.Equal(t, "plan9", h.DisplayName())
}

func TestNewHostPinnedOS(t *testing.T) {
	h := NewHost(WithPlatform("linux"), WithOS(Darwin), WithOSReleasePath(""))

	assert.Equal(t, Darwin, h.OSType)
	assert.Equal(t, "Darwin", h.DisplayName())
}
