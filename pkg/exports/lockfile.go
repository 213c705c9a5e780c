package exports

import (
	"fmt"
	"os"
	"syscall"
)

// FileLock serializes registry writers across processes with flock(2) on a
// sidecar lock file.
//
// The lock deliberately lives next to the registry rather than on the
// registry's own descriptor: the rewriter commits by renaming a temp file
// over the registry, which replaces the inode and would strand any flock
// held on the old one. The sidecar file survives the rename, so the lock
// stays meaningful across the whole read, temp-write, rename sequence.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock returns a lock backed by the given lock file path. The file
// is created on first acquisition and left in place afterwards.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires the exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	f, err := fl.open()
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return fmt.Errorf("flock %s: %w", fl.path, err)
	}

	fl.file = f
	return nil
}

// TryLock acquires the exclusive lock without blocking. Returns ErrLockBusy
// when another process holds it.
func (fl *FileLock) TryLock() error {
	f, err := fl.open()
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if err == syscall.EWOULDBLOCK {
			return fmt.Errorf("%s: %w", fl.path, ErrLockBusy)
		}
		return fmt.Errorf("flock %s: %w", fl.path, err)
	}

	fl.file = f
	return nil
}

// Unlock releases the lock and closes the lock file. Calling Unlock on an
// unheld lock is a no-op.
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = fl.file.Close()
		fl.file = nil
		return fmt.Errorf("funlock %s: %w", fl.path, err)
	}

	err := fl.file.Close()
	fl.file = nil
	return err
}

func (fl *FileLock) open() (*os.File, error) {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return f, nil
}
