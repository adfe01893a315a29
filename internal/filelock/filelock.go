// Package filelock provides the run lock and atomic output writes.
package filelock

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by AcquireRunLock when another process holds the lock
var ErrLocked = errors.New("lock is held by another process")

// FileLock wraps a flock file lock
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file is created on first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock, blocking until it is available
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns false if the lock is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Release removes the lock file while still holding the lock, then unlocks.
// Removing first means a waiter can never lock a path that is about to vanish.
func (fl *FileLock) Release() error {
	rmErr := os.Remove(fl.path)
	if err := fl.Unlock(); err != nil {
		return err
	}
	if rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file %s: %w", fl.path, rmErr)
	}
	return nil
}

// current reports whether the held lock is on the file that path names now.
// It is false when a releasing holder unlinked the file between our open and
// our lock.
func (fl *FileLock) current() (bool, error) {
	held, err := fl.flock.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat lock %s: %w", fl.path, err)
	}
	onDisk, err := os.Stat(fl.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat lock %s: %w", fl.path, err)
	}
	return os.SameFile(held, onDisk), nil
}

// staleLockRetries bounds how often AcquireRunLock reopens a lock file that
// was unlinked under it
const staleLockRetries = 3

// AcquireRunLock takes a non-blocking exclusive lock at path, creating the
// parent directory if needed. It wraps ErrLocked when the lock is busy.
func AcquireRunLock(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for lock %s: %w", path, err)
	}
	for attempt := 0; attempt < staleLockRetries; attempt++ {
		lock := NewFileLock(path)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		same, err := lock.current()
		if err != nil {
			lock.Unlock()
			return nil, err
		}
		if same {
			return lock, nil
		}
		lock.Unlock()
	}
	return nil, fmt.Errorf("%s: %w", path, ErrLocked)
}

// WriteAtomic streams content produced by write into path through a temp file
// in the same directory, then renames it into place with the given mode.
// On any error the target is left untouched and the temp file removed.
func WriteAtomic(path string, perm os.FileMode, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	bw := bufio.NewWriter(tempFile)
	if err := write(bw); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file for %s: %w", path, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// AtomicWrite writes data to path with mode 0644 using WriteAtomic
func AtomicWrite(path string, data []byte) error {
	return WriteAtomic(path, 0644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
