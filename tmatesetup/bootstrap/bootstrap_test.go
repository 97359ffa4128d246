package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/environmentmanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/host"
	"github.com/steelcutops/tmatesetup/tmatesetup/packagemanager"
	"github.com/steelcutops/tmatesetup/tmatesetup/session"
)

type MockCommandManager struct {
	mock.Mock
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	args := m.Called(ctx, config)
	return args.Get(0).(cm.CommandResult), args.Error(1)
}

type fakeHandle struct {
	done    chan struct{}
	stopped bool
}

func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Stop() error {
	h.stopped = true
	return nil
}

type fakeLauncher struct {
	runErr   error
	startErr error
	runs     int
	starts   int
	handle   *fakeHandle
}

func (l *fakeLauncher) Run(ctx context.Context) error {
	l.runs++
	return l.runErr
}

func (l *fakeLauncher) Start(ctx context.Context) (session.Handle, error) {
	l.starts++
	if l.startErr != nil {
		return nil, l.startErr
	}
	l.handle = &fakeHandle{done: make(chan struct{})}
	return l.handle, nil
}

func lookPath(available ...string) host.LookPathFunc {
	return func(file string) (string, error) {
		for _, a := range available {
			if a == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

type fixture struct {
	b        *Bootstrapper
	cmd      *MockCommandManager
	launcher *fakeLauncher
	out      *bytes.Buffer
}

func newFixture(platform string, env environmentmanager.MapEnvironmentManager, executables ...string) *fixture {
	f := &fixture{
		cmd:      new(MockCommandManager),
		launcher: &fakeLauncher{},
		out:      &bytes.Buffer{},
	}
	f.b = &Bootstrapper{
		Config: Config{CIMode: CIModeSkip, KeepAliveInterval: time.Millisecond},
		Host: host.NewHost(
			host.WithPlatform(platform),
			host.WithOSReleasePath(""),
			host.WithLookPath(lookPath(executables...)),
		),
		CommandManager: f.cmd,
		Environment:    env,
		Launcher:       f.launcher,
		Reporter:       &Reporter{Out: f.out},
	}
	return f
}

func (f *fixture) expect(command string, sudo bool, err error, args ...string) {
	f.cmd.On("Run", mock.Anything, cm.CommandConfig{Command: command, Sudo: sudo, Args: args}).
		Return(cm.CommandResult{}, err).Once()
}

func TestRunUnsupportedOS(t *testing.T) {
	f := newFixture("freebsd", nil, "pkg", "apt")

	err := f.b.Run(context.Background())

	assert.ErrorIs(t, err, packagemanager.ErrUnsupportedOS)
	assert.EqualError(t, err, "unsupported operating system: freebsd")
	f.cmd.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	assert.Zero(t, f.launcher.runs+f.launcher.starts)
	assert.Contains(t, f.out.String(), "Detected OS: freebsd")
}

func TestRunLinuxPacmanOnly(t *testing.T) {
	f := newFixture("linux", nil, "pacman")
	f.expect("pacman", true, nil, "-Syu", "--noconfirm")
	f.expect("pacman", true, nil, "-S", "--noconfirm", "tmate")

	require.NoError(t, f.b.Run(context.Background()))

	f.cmd.AssertExpectations(t)
	f.cmd.AssertNumberOfCalls(t, "Run", 2)
	assert.Equal(t, 1, f.launcher.runs)
	out := f.out.String()
	assert.Contains(t, out, "Detected OS: Linux")
	assert.Contains(t, out, "Using pacman-based installation (Arch Linux)...")
	assert.Contains(t, out, "tmate installed successfully on a pacman-based system!")
	assert.Contains(t, out, "Starting tmate...")
}

func TestRunLinuxAptOnly(t *testing.T) {
	f := newFixture("linux", nil, "apt")
	f.expect("apt", true, nil, "update")
	f.expect("apt", true, nil, "install", "-y", "tmate")

	require.NoError(t, f.b.Run(context.Background()))

	f.cmd.AssertExpectations(t)
	f.cmd.AssertNumberOfCalls(t, "Run", 2)
}

func TestRunUpdateFailureSkipsInstall(t *testing.T) {
	f := newFixture("linux", nil, "apt")
	failure := &cm.CommandError{Command: "sudo", Args: []string{"apt", "update"}, ExitCode: 100}
	f.expect("apt", true, failure, "update")

	err := f.b.Run(context.Background())

	require.Error(t, err)
	assert.EqualError(t, err, `error during apt installation: command "sudo apt update" exited with status 100`)
	var cmdErr *cm.CommandError
	assert.ErrorAs(t, err, &cmdErr)
	f.cmd.AssertNotCalled(t, "Run", mock.Anything, cm.CommandConfig{Command: "apt", Sudo: true, Args: []string{"install", "-y", "tmate"}})
	assert.Zero(t, f.launcher.runs)
	assert.NotContains(t, f.out.String(), "installed successfully")
}

func TestRunInstallFailure(t *testing.T) {
	f := newFixture("darwin", nil, "brew")
	f.expect("brew", false, nil, "update")
	f.expect("brew", false, errors.New("boom"), "install", "tmate")

	err := f.b.Run(context.Background())

	assert.EqualError(t, err, "error during Homebrew installation: boom")
	assert.Zero(t, f.launcher.runs)
}

func TestRunMissingManagers(t *testing.T) {
	tests := []struct {
		platform string
		wantErr  error
	}{
		{"linux", packagemanager.ErrUnsupportedPackageManager},
		{"darwin", packagemanager.ErrHomebrewMissing},
		{"windows", packagemanager.ErrChocolateyMissing},
	}
	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			f := newFixture(tt.platform, nil)

			err := f.b.Run(context.Background())

			assert.ErrorIs(t, err, tt.wantErr)
			f.cmd.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestRunWindowsChoco(t *testing.T) {
	f := newFixture("windows", nil, "choco")
	f.expect("choco", false, nil, "install", "-y", "tmate")

	require.NoError(t, f.b.Run(context.Background()))

	f.cmd.AssertNumberOfCalls(t, "Run", 1)
	assert.Contains(t, f.out.String(), "tmate installed successfully on Windows!")
}

func TestRunCISkipsLaunch(t *testing.T) {
	f := newFixture("linux", environmentmanager.MapEnvironmentManager{"CI": ""}, "apt")
	f.expect("apt", true, nil, "update")
	f.expect("apt", true, nil, "install", "-y", "tmate")

	require.NoError(t, f.b.Run(context.Background()))

	assert.Zero(t, f.launcher.runs)
	assert.Zero(t, f.launcher.starts)
	assert.Contains(t, f.out.String(), "CI environment detected (CI is set)")
	assert.NotContains(t, f.out.String(), "Starting tmate...")
}

func TestRunCustomCIVariable(t *testing.T) {
	f := newFixture("linux", environmentmanager.MapEnvironmentManager{"CI": "true"}, "apt")
	f.b.CIVariable = "GITHUB_ACTIONS"
	f.expect("apt", true, nil, "update")
	f.expect("apt", true, nil, "install", "-y", "tmate")

	require.NoError(t, f.b.Run(context.Background()))

	assert.Equal(t, 1, f.launcher.runs, "CI alone does not count when another variable is configured")
}

func TestRunKeepAliveUntilInterrupted(t *testing.T) {
	f := newFixture("linux", environmentmanager.MapEnvironmentManager{"CI": "true"}, "apt")
	f.b.CIMode = CIModeKeepAlive
	f.expect("apt", true, nil, "update")
	f.expect("apt", true, nil, "install", "-y", "tmate")

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- f.b.Run(ctx) }()

	select {
	case err := <-result:
		t.Fatalf("Run returned before interrupt: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after interrupt")
	}

	assert.Equal(t, 1, f.launcher.starts)
	assert.Zero(t, f.launcher.runs)
	assert.True(t, f.launcher.handle.stopped)
	assert.Contains(t, f.out.String(), "Keep-alive interrupted, exiting.")
}

func TestRunKeepAliveStartFailure(t *testing.T) {
	f := newFixture("linux", environmentmanager.MapEnvironmentManager{"CI": "true"}, "apt")
	f.b.CIMode = CIModeKeepAlive
	f.launcher.startErr = &cm.CommandError{Command: "tmate", Args: []string{"-F"}, ExitCode: -1, Err: errors.New("not found")}
	f.expect("apt", true, nil, "update")
	f.expect("apt", true, nil, "install", "-y", "tmate")

	err := f.b.Run(context.Background())

	assert.EqualError(t, err, `error running tmate: command "tmate -F" failed: not found`)
}

func TestRunLaunchFailure(t *testing.T) {
	f := newFixture("linux", nil, "zypper")
	f.launcher.runErr = errors.New("exit status 1")
	f.expect("zypper", true, nil, "refresh")
	f.expect("zypper", true, nil, "install", "-y", "tmate")

	err := f.b.Run(context.Background())

	assert.EqualError(t, err, "error running tmate: exit status 1")
}

func TestRunTwiceIssuesSameCommands(t *testing.T) {
	f := newFixture("linux", nil, "dnf", "yum")
	for i := 0; i < 2; i++ {
		f.expect("dnf", true, nil, "update", "-y")
		f.expect("dnf", true, nil, "install", "-y", "tmate")
	}

	first := f.b.Run(context.Background())
	second := f.b.Run(context.Background())

	assert.NoError(t, first)
	assert.NoError(t, second)
	f.cmd.AssertExpectations(t)
	f.cmd.AssertNumberOfCalls(t, "Run", 4)
	assert.Equal(t, 2, f.launcher.runs)
}

func TestParseCIMode(t *testing.T) {
	m, err := ParseCIMode("skip")
	assert.NoError(t, err)
	assert.Equal(t, CIModeSkip, m)

	m, err = ParseCIMode("keep-alive")
	assert.NoError(t, err)
	assert.Equal(t, CIModeKeepAlive, m)

	_, err = ParseCIMode("forever")
	assert.Error(t, err)
}
