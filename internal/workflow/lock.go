package workflow

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"ywbridge/internal/faults"
	"ywbridge/internal/project"
)

// LockSuffix is appended to a project path to name the lock file held while
// a command runs against the project.
const LockSuffix = ".ywbridge.lock"

type projectLock struct {
	path string
	lock *flock.Flock
}

// acquireLock takes the command lock of projectPath. It fails with
// faults.ErrLocked when another command holds it or yWriter has the project
// open.
func acquireLock(projectPath string) (*projectLock, error) {
	if project.IsLocked(projectPath) {
		return nil, faults.Wrap(faults.ErrLocked, "lock", projectPath, "yWriter has the project open; close it and retry", nil)
	}
	path := projectPath + LockSuffix
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrLocked, "lock", projectPath, "another ywbridge command is using the project", nil)
	}
	return &projectLock{path: path, lock: lock}, nil
}

func (l *projectLock) release() error {
	if l == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
