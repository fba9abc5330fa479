package importcache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// fileLockRetryInterval is the interval between attempts to acquire the
// schema lock.
const fileLockRetryInterval = 50 * time.Millisecond

// acquireFileLock acquires an exclusive lock on lockPath, retrying until it
// succeeds or ctx is done.
func acquireFileLock(ctx context.Context, lockPath string) (*flock.Flock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, fileLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", lockPath)
	}
	return fl, nil
}

// releaseFileLock releases the lock and closes its descriptor. The lock file
// stays on disk; removing it could invalidate a lock another process just
// acquired.
func releaseFileLock(log *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		log.Debug("failed to release file lock", "path", fl.Path(), "error", err)
	}
}
