//go:build unix

package session

import (
	"os"

	"golang.org/x/sys/unix"
)

// InterruptSignals are the signals that end a keep-alive wait.
func InterruptSignals() []os.Signal {
	return []os.Signal{os.Interrupt, unix.SIGTERM}
}

func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
