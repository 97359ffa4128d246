package packagemanager

import (
	"context"

	cm "github.com/steelcutops/tmatesetup/tmatesetup/commandmanager"
)

type PacmanPackageManager struct {
	CommandManager cm.CommandManager
}

func (ppm *PacmanPackageManager) Kind() Kind { return Pacman }

func (ppm *PacmanPackageManager) Info() Info {
	return Info{
		Family: "pacman",
		Method: "pacman-based installation (Arch Linux)",
		Target: "a pacman-based system",
	}
}

// Update performs a full system upgrade (-Syu), not just an index refresh.
func (ppm *PacmanPackageManager) Update(ctx context.Context) error {
	return run(ctx, ppm.CommandManager, cm.CommandConfig{
		Command: "pacman",
		Sudo:    true,
		Args:    []string{"-Syu", "--noconfirm"},
	})
}

func (ppm *PacmanPackageManager) Install(ctx context.Context, pkg string) error {
	return run(ctx, ppm.CommandManager, cm.CommandConfig{
		Command: "pacman",
		Sudo:    true,
		Args:    []string{"-S", "--noconfirm", pkg},
	})
}
