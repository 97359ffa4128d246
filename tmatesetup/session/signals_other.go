//go:build !unix

package session

import "os"

// InterruptSignals are the signals that end a keep-alive wait.
func InterruptSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func terminate(p *os.Process) error {
	return p.Kill()
}
