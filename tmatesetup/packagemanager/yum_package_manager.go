package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

// dnf and yum share their reporting; both serve the Red Hat family.
var redHatInfo = Info{
	Family: "Red Hat",
	Method: "Red Hat-based installation (Fedora/CentOS/RHEL)",
	Target: "a Red Hat-based system",
}

type YumPackageManager struct {
	CommandManager cm.CommandManager
}

func (ypm *YumPackageManager) Kind() Kind { return Yum }

func (ypm *YumPackageManager) Info() Info {
	return redHatInfo
}

func (ypm *YumPackageManager) Update(ctx context.Context) error {
	return run(ctx, ypm.CommandManager, cm.CommandConfig{
		Command: "yum",
		Sudo:    true,
		Args:    []string{"update", "-y"},
	})
}

func (ypm *YumPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, ypm.CommandManager, cm.CommandConfig{
		Command: "yum",
		Sudo:    true,
		Args:    []string{"install", "-y", pkg},
	})
}
