package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

type ZypperPackageManager struct {
	CommandManager cm.CommandManager
}

func (zpm *ZypperPackageManager) Kind() Kind { return Zypper }

func (zpm *ZypperPackageManager) Info() Info {
	return Info{
		Family: "zypper",
		Method: "zypper installation (openSUSE/SUSE)",
		Target: "a SUSE-based system",
	}
}

func (zpm *ZypperPackageManager) Update(ctx context.Context) error {
	return run(ctx, zpm.CommandManager, cm.CommandConfig{
		Command: "zypper",
		Sudo:    true,
		Args:    []string{"refresh"},
	})
}

func (zpm *ZypperPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, zpm.CommandManager, cm.CommandConfig{
		Command: "zypper",
		Sudo:    true,
		Args:    []string{"install", "-y", pkg},
	})
}
