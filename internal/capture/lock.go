package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"photostrip/internal/failures"
)

// DeviceLock holds an exclusive flock on the camera lock file.
type DeviceLock struct {
	path string
	lock *flock.Flock
}

// AcquireDeviceLock takes the camera lock without blocking. A held lock
// reports failures.ErrSequenceActive.
func AcquireDeviceLock(path string) (*DeviceLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, failures.Wrap(failures.ErrSequenceActive, "capture", "lock",
			"another capture is using the camera", nil)
	}
	return &DeviceLock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *DeviceLock) Path() string {
	return l.path
}

// Release unlocks the camera.
func (l *DeviceLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
