package oauth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the browser login lock file inside the config directory.
const LockFileName = "login.lock"

// ErrLoginInProgress is returned when another process holds the login lock.
var ErrLoginInProgress = errors.New("another browser login is in progress")

// AcquireLoginLock takes the cross-process browser login lock in dir.
// The returned func releases it.
func AcquireLoginLock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire login lock: %w", err)
	}
	if !locked {
		return nil, ErrLoginInProgress
	}
	return func() { _ = lock.Unlock() }, nil
}
