// Package lockfile implements the single-writer directory lock: a file
// whose content is the acquiring process's PID, acquired with bounded
// exponential backoff and reaped when its recorded owner is no longer a
// live process.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/textbeads/textbeads/internal/debug"
	"github.com/textbeads/textbeads/internal/types"
)

// LockFileName is the name of the lock file inside the store directory.
const LockFileName = ".textbeads.lock"

const (
	initialBackoff = 10 * time.Millisecond
	maxBackoff     = 500 * time.Millisecond
	maxElapsed     = 5 * time.Second
)

// Lock represents a held directory lock. Release is idempotent: calling it
// more than once, or after the lock file has already been removed by
// another process's stale-lock reap, is not an error.
type Lock struct {
	path     string
	released bool
}

// Acquire takes the single-writer lock over dir: it writes
// dir/.textbeads.lock containing the current PID, polling with bounded
// exponential backoff (initial 10ms, capped 500ms, total bound 5s) if the
// lock is already held. A lock file whose recorded PID is not a live
// process is treated as stale and removed before the attempt retries.
//
// Release the returned Lock on every exit path, e.g. via defer.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialBackoff
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = maxElapsed
	b.Multiplier = 2
	b.RandomizationFactor = 0

	var holderPID int
	op := func() error {
		if err := tryCreate(path); err == nil {
			return nil
		} else if !errors.Is(err, os.ErrExist) {
			return backoff.Permanent(fmt.Errorf("%w: create lock file: %v", types.ErrIO, err))
		}

		pid, ok := readPID(path)
		if ok && isProcessRunning(pid) {
			holderPID = pid
			debug.Logf("lockfile: %s held by live pid %d, retrying\n", path, pid)
			return fmt.Errorf("lock held by pid %d", pid)
		}

		debug.Logf("lockfile: reaping stale lock %s (pid %d)\n", path, pid)
		_ = os.Remove(path)
		return fmt.Errorf("retrying after reaping stale lock")
	}

	if err := backoff.Retry(op, b); err != nil {
		// backoff.Retry unwraps backoff.Permanent errors and returns them
		// as-is, so an IO failure from tryCreate surfaces here untouched.
		if errors.Is(err, types.ErrIO) {
			return nil, err
		}
		if holderPID != 0 {
			return nil, fmt.Errorf("%w: lock held by pid %d", types.ErrLockTimeout, holderPID)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrLockTimeout, err)
	}

	return &Lock{path: path}, nil
}

// Release deletes the lock file. Guaranteed-release on every exit path is
// the caller's responsibility (defer immediately after a successful
// Acquire); Release itself is safe to call multiple times.
func (l *Lock) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: release lock file: %v", types.ErrIO, err)
	}
	return nil
}

// tryCreate atomically creates the lock file with the current PID as its
// content, failing with os.ErrExist if it is already present.
func tryCreate(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%d", os.Getpid())
	return err
}

// readPID reads the PID recorded in an existing lock file. ok is false if
// the file is unreadable or its content is not a plain integer.
func readPID(path string) (pid int, ok bool) {
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from the store directory, not user input
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return n, true
}
