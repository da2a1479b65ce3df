package fsutil

import (
	"errors"
	"os"

	"golang.org/x/xerrors"
)

// LockFile guards crash-safe writes to a target path using a sibling
// "<path>.lock" file created with exclusive-create semantics. Only one
// LockFile may be alive for a given path at a time: Acquire fails while
// another holder's lockfile still exists on disk.
//
// On Commit, the lockfile is renamed onto the target path, atomically
// replacing its content. On Rollback, or on Commit without any prior
// Write, the lockfile is removed and the target is left untouched. A
// LockFile that is neither committed nor rolled back leaves its lockfile
// on disk.
type LockFile struct {
	path        string
	lockPath    string
	file        *os.File
	hasWrite    bool
	releaseOnce bool
}

// AcquireLock creates path+".lock" exclusively. If the lockfile already
// exists, it returns a fatal, user-facing error: callers should surface
// its message verbatim, since the exact wording is part of the contract
// observed by anyone scripting against this tool.
func AcquireLock(path string) (*LockFile, error) {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, xerrors.Errorf("Unable to create '%s': File exists.", lockPath) //nolint:stylecheck // message is a user-facing contract
		}
		return nil, xerrors.Errorf("could not create lockfile %s: %w", lockPath, err)
	}
	return &LockFile{path: path, lockPath: lockPath, file: f}, nil
}

// Write appends bytes to the lockfile. The lockfile was freshly created
// by AcquireLock, so this always starts from an empty file.
func (l *LockFile) Write(b []byte) error {
	if _, err := l.file.Write(b); err != nil {
		return xerrors.Errorf("could not write lockfile %s: %w", l.lockPath, err)
	}
	l.hasWrite = true
	return nil
}

// Commit closes the lockfile and, if any Write succeeded, renames it onto
// the target path so readers observe the new content atomically. If no
// write occurred, the lockfile is discarded and the target is untouched.
// Commit is idempotent: calling it more than once is a no-op.
func (l *LockFile) Commit() error {
	if l.releaseOnce {
		return nil
	}
	l.releaseOnce = true

	if err := l.file.Close(); err != nil {
		return xerrors.Errorf("could not close lockfile %s: %w", l.lockPath, err)
	}
	if l.hasWrite {
		if err := os.Rename(l.lockPath, l.path); err != nil {
			return xerrors.Errorf("could not commit lockfile %s onto %s: %w", l.lockPath, l.path, err)
		}
		return nil
	}
	if err := os.Remove(l.lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xerrors.Errorf("could not remove unused lockfile %s: %w", l.lockPath, err)
	}
	return nil
}

// Rollback discards the lockfile without touching the target, regardless
// of whether a Write happened. Rollback is idempotent alongside Commit:
// whichever of the two runs first wins.
func (l *LockFile) Rollback() error {
	if l.releaseOnce {
		return nil
	}
	l.releaseOnce = true

	l.file.Close()
	if err := os.Remove(l.lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xerrors.Errorf("could not remove lockfile %s: %w", l.lockPath, err)
	}
	return nil
}
