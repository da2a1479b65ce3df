// Package fsutil contains the low-level file primitives the rest of the
// engine builds crash-safety on top of: atomic writes, exclusive-create,
// and a filtered recursive walk. These operate on the raw os package
// rather than afero because the create-exclusive/rename semantics they
// rely on aren't modeled by afero's in-memory filesystem.
package fsutil

import (
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// AtomicWrite writes content to a sibling temporary file under path's
// parent directory, then renames it over path. A reader of path always
// observes either the previous content or the fully-written new content,
// never a torn intermediate.
func AtomicWrite(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return xerrors.Errorf("could not create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return xerrors.Errorf("could not write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return xerrors.Errorf("could not close temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return xerrors.Errorf("could not chmod temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return xerrors.Errorf("could not rename temp file onto %s: %w", path, err)
	}
	return nil
}

// CreateNew creates path exclusively and writes content to it, failing if
// path already exists.
func CreateNew(path string, content []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return xerrors.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		return xerrors.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

// EntryFilter reports whether a walked path should be kept. It receives
// the path and whether it's a directory.
type EntryFilter func(path string, isDir bool) bool

// ResolvePaths performs a recursive descent of root, returning every
// regular-file path for which filter returns true. A path is pruned
// (along with its entire subtree, if a directory) when its basename
// begins with "." (unless the basename is the walk root itself), when
// its basename is in the global ignore set, or when filter rejects it.
func ResolvePaths(root string, filter EntryFilter) ([]string, error) {
	var out []string
	rootBase := filepath.Base(root)

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return xerrors.Errorf("could not read directory %s: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)

			if isHidden(name, path == root && name == rootBase) || isIgnoredName(name) {
				continue
			}
			if filter != nil && !filter(path, entry.IsDir()) {
				continue
			}

			if entry.IsDir() {
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			out = append(out, path)
		}
		return nil
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, xerrors.Errorf("could not stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if filter == nil || filter(root, false) {
			return []string{root}, nil
		}
		return nil, nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

func isHidden(basename string, isWalkRoot bool) bool {
	if isWalkRoot {
		return false
	}
	if basename == "." || basename == ".." {
		return false
	}
	return len(basename) > 0 && basename[0] == '.'
}

func isIgnoredName(basename string) bool {
	switch basename {
	case ".git":
		return true
	default:
		return false
	}
}
