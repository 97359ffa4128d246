package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

// BrewPackageManager never uses sudo; Homebrew refuses to run as root.
type BrewPackageManager struct {
	CommandManager cm.CommandManager
}

func (bpm *BrewPackageManager) Kind() Kind { return Brew }

func (bpm *BrewPackageManager) Info() Info {
	return Info{
		Family: "Homebrew",
		Method: "Homebrew installation on macOS",
		Target: "macOS",
	}
}

func (bpm *BrewPackageManager) Update(ctx context.Context) error {
	return run(ctx, bpm.CommandManager, cm.CommandConfig{
		Command: "brew",
		Args:    []string{"update"},
	})
}

func (bpm *BrewPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, bpm.CommandManager, cm.CommandConfig{
		Command: "brew",
		Args:    []string{"install", pkg},
	})
}
