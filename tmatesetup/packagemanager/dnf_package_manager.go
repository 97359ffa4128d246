package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

type DnfPackageManager struct {
	CommandManager cm.CommandManager
}

func (dpm *DnfPackageManager) Kind() Kind { return Dnf }

func (dpm *DnfPackageManager) Info() Info {
	return redHatInfo
}

func (dpm *DnfPackageManager) Update(ctx context.Context) error {
	return run(ctx, dpm.CommandManager, cm.CommandConfig{
		Command: "dnf",
		Sudo:    true,
		Args:    []string{"update", "-y"},
	})
}

func (dpm *DnfPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, dpm.CommandManager, cm.CommandConfig{
		Command: "dnf",
		Sudo:    true,
		Args:    []string{"install", "-y", pkg},
	})
}
