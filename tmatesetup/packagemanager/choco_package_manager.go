package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

type ChocoPackageManager struct {
	CommandManager cm.CommandManager
}

func (cpm *ChocoPackageManager) Kind() Kind { return Choco }

func (cpm *ChocoPackageManager) Info() Info {
	return Info{
		Family: "Chocolatey",
		Method: "Chocolatey installation on Windows",
		Target: "Windows",
	}
}

// Update is a no-op: choco install always resolves against the remote feed.
func (cpm *ChocoPackageManager) Update(ctx context.Context) error {
	return nil
}

func (cpm *ChocoPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, cpm.CommandManager, cm.CommandConfig{
		Command: "choco",
		Args:    []string{"install", "-y", pkg},
	})
}
