package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

type AptPackageManager struct {
	CommandManager cm.CommandManager
}

func (apm *AptPackageManager) Kind() Kind { return Apt }

func (apm *AptPackageManager) Info() Info {
	return Info{
		Family: "apt",
		Method: "apt-based installation (Debian/Ubuntu)",
		Target: "an apt-based system",
	}
}

func (apm *AptPackageManager) Update(ctx context.Context) error {
	return run(ctx, apm.CommandManager, cm.CommandConfig{
		Command: "apt",
		Sudo:    true,
		Args:    []string{"update"},
	})
}

func (apm *AptPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, apm.CommandManager, cm.CommandConfig{
		Command: "apt",
		Sudo:    true,
		Args:    []string{"install", "-y", pkg},
	})
}
