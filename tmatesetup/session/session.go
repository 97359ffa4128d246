package session

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/steelcutops/tmatesetup/logger"
	"github.com/steelcutops/tmatesetup/tmatesetup/expectmanager"
)

// Session is a tmate process started by Launcher.Start.
type Session struct {
	cmd      *exec.Cmd
	pty      *os.File
	grace    time.Duration
	expect   *expectmanager.ExpectManager
	logger   logger.Logger
	pumpDone chan struct{}

	done     chan struct{}
	mu       sync.Mutex
	err      error
	stopping bool
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the exit error of tmate once Done is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Connection returns a connection line printed by tmate, such as SSH.
func (s *Session) Connection(name string) (string, bool) {
	return s.expect.Value(name)
}

// Stop asks tmate to exit and kills it if it is still running after the
// grace period.
func (s *Session) Stop() error {
	select {
	case <-s.done:
		return nil
	default:
	}

	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()

	if err := terminate(s.cmd.Process); err != nil {
		s.logger.Warn("Failed to signal tmate", "pid", s.cmd.Process.Pid, "error", err)
	}

	grace := s.grace
	if grace <= 0 {
		grace = DefaultStopGrace
	}

	select {
	case <-s.done:
		return nil
	case <-time.After(grace):
	}

	s.logger.Warn("tmate did not exit in time, killing it", "pid", s.cmd.Process.Pid)
	if err := s.cmd.Process.Kill(); err != nil {
		return err
	}
	<-s.done
	return nil
}

func (s *Session) pump(out io.Writer) {
	defer close(s.pumpDone)
	// Reading a pty whose child has exited fails with EIO on Linux; that is
	// the normal end of output.
	_, _ = io.Copy(out, s.pty)
	s.expect.Flush()
}

func (s *Session) reap() {
	err := s.cmd.Wait()

	if s.pty != nil {
		select {
		case <-s.pumpDone:
		case <-time.After(time.Second):
		}
		s.pty.Close()
		<-s.pumpDone
	}
	s.expect.Flush()

	s.mu.Lock()
	if !s.stopping {
		s.err = err
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("tmate exited", "error", err)
	}
	close(s.done)
}
