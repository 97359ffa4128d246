package session

import (
	"context"
	"time"

	"github.com/steelcutops/tmatesetup/logger"
)

const DefaultKeepAliveInterval = 60 * time.Second

// KeepAlive blocks until ctx is cancelled, logging a heartbeat every
// interval. It never returns on its own: a background session that exits
// is reported but does not end the wait.
func KeepAlive(ctx context.Context, interval time.Duration, log logger.Logger, sessionDone <-chan struct{}) {
	if interval <= 0 {
		interval = DefaultKeepAliveInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("Keep-alive cancelled", "waited", time.Since(start).Round(time.Second))
			return
		case <-sessionDone:
			log.Warn("tmate exited, still keeping the job alive until interrupted")
			sessionDone = nil
		case <-ticker.C:
			log.Debug("Keeping job alive", "waited", time.Since(start).Round(time.Second))
		}
	}
}
