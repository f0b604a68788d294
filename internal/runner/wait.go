package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WaitForLogs blocks until dir holds a cluster log file, the timeout
// passes, or ctx is canceled. The directory is created if missing so the
// scheduler's first write can be observed.
func WaitForLogs(ctx context.Context, dir string, timeout time.Duration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cluster log dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Files written before the watch was added.
	if _, err := ScanLogs(dir); err == nil {
		return nil
	} else if !errors.Is(err, ErrNoLogs) {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("%w: none appeared in %s within %s", ErrNoLogs, dir, timeout)
		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("%w: watcher closed", ErrNoLogs)
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if _, _, _, ok := ParseLogName(filepath.Base(event.Name)); ok {
				return nil
			}
		case _, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("%w: watcher closed", ErrNoLogs)
			}
			// Watch errors are non-fatal.
		}
	}
}
