// Package refs resolves and mutates the named pointers that sit on top
// of the object database: HEAD and refs/heads/<branch>.
package refs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumenvcs/lumen/internal/fsutil"
	"github.com/lumenvcs/lumen/plumbing"
	"golang.org/x/xerrors"
)

// HeadName is the name of the file that tracks the current branch or
// detached commit.
const HeadName = "HEAD"

// headsDir is where branch refs live, relative to the git directory.
const headsDir = "refs/heads"

var (
	// ErrRefNotFound is returned when a named ref doesn't exist.
	ErrRefNotFound = errors.New("reference not found")

	// ErrRefExists is returned by CreateRef when the ref already exists.
	ErrRefExists = errors.New("reference already exists")

	// ErrInvalidRefName is returned when a branch name fails validation.
	ErrInvalidRefName = errors.New("reference name is not valid")

	// ErrInvalidRef is returned when a ref file's content can't be
	// parsed as either a symbolic ref or a hex object id.
	ErrInvalidRef = errors.New("reference is not valid")
)

// Head describes the parsed content of the HEAD file: either a branch
// name (symbolic, the common case) or a detached commit id.
type Head struct {
	Branch   string
	Detached bool
	OID      plumbing.Oid
}

const symbolicPrefix = "ref: refs/heads/"

// headPath returns the absolute path to gitDir's HEAD file.
func headPath(gitDir string) string {
	return filepath.Join(gitDir, HeadName)
}

// refPath returns the absolute path to the branch ref named name,
// accepting both "main" and "refs/heads/main".
func refPath(gitDir, name string) string {
	name = strings.TrimPrefix(name, "refs/heads/")
	return filepath.Join(gitDir, headsDir, name)
}

// ReadHead parses gitDir's HEAD file without following it any further:
// a symbolic HEAD returns just the branch name, a detached HEAD returns
// just the raw id.
func ReadHead(gitDir string) (Head, error) {
	data, err := os.ReadFile(headPath(gitDir))
	if err != nil {
		return Head{}, xerrors.Errorf("could not read HEAD: %w", err)
	}
	content := strings.TrimSpace(string(data))

	if strings.HasPrefix(content, symbolicPrefix) {
		return Head{Branch: strings.TrimPrefix(content, symbolicPrefix)}, nil
	}

	oid, err := plumbing.FromHex(content)
	if err != nil {
		return Head{}, xerrors.Errorf("HEAD content %q: %w", content, ErrInvalidRef)
	}
	return Head{Detached: true, OID: oid}, nil
}

// WriteHeadSymbolic points HEAD at branch, creating a repository where
// the current branch hasn't been committed to yet.
func WriteHeadSymbolic(gitDir, branch string) error {
	return fsutil.AtomicWrite(headPath(gitDir), []byte(symbolicPrefix+branch+"\n"), 0o644)
}

// WriteHeadDetached points HEAD directly at a commit id, outside of any
// branch.
func WriteHeadDetached(gitDir string, id plumbing.Oid) error {
	return fsutil.AtomicWrite(headPath(gitDir), []byte(id.String()+"\n"), 0o644)
}

// Deref resolves name to an object id, following exactly one level of
// indirection through HEAD or through a branch ref:
//   - "HEAD" follows the current branch, or returns the detached id.
//   - a 40-character hex string is parsed directly, with no file lookup.
//   - anything else is looked up as a branch name under refs/heads/.
func Deref(gitDir, name string) (plumbing.Oid, error) {
	if name == HeadName {
		head, err := ReadHead(gitDir)
		if err != nil {
			return plumbing.NullOid, err
		}
		if head.Detached {
			return head.OID, nil
		}
		return Deref(gitDir, head.Branch)
	}

	if oid, err := plumbing.FromHex(name); err == nil {
		return oid, nil
	}

	data, err := os.ReadFile(refPath(gitDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return plumbing.NullOid, xerrors.Errorf("could not dereference ref %q: %w", name, ErrRefNotFound)
		}
		return plumbing.NullOid, xerrors.Errorf("could not read ref %q: %w", name, err)
	}

	oid, err := plumbing.FromHex(strings.TrimSpace(string(data)))
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("ref %q: %w", name, ErrInvalidRef)
	}
	return oid, nil
}

// CreateRef writes refs/heads/<name> = id, failing if the branch
// already exists or if name is not a valid branch name.
func CreateRef(gitDir, name string, id plumbing.Oid) error {
	if !IsValidName(name) {
		return xerrors.Errorf("%q: %w", name, ErrInvalidRefName)
	}
	path := refPath(gitDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Errorf("could not create refs directory: %w", err)
	}
	if err := fsutil.CreateNew(path, []byte(id.String()+"\n"), 0o644); err != nil {
		if errors.Is(err, os.ErrExist) {
			return xerrors.Errorf("a branch named '%s' already exists: %w", name, ErrRefExists)
		}
		return err
	}
	return nil
}

// WriteRef unconditionally overwrites refs/heads/<name> with id,
// creating it if it doesn't already exist.
func WriteRef(gitDir, name string, id plumbing.Oid) error {
	if !IsValidName(name) {
		return xerrors.Errorf("%q: %w", name, ErrInvalidRefName)
	}
	path := refPath(gitDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Errorf("could not create refs directory: %w", err)
	}
	return fsutil.AtomicWrite(path, []byte(id.String()+"\n"), 0o644)
}

// IsValidName reports whether name is an acceptable branch name.
// Rejected: empty, a leading ".", any "/.", any "..", a leading "/", a
// trailing "/", a trailing ".lock", "@{", or any of the bytes
// "\x00-\x20 * : ? [ \ ^ ~ \x7F".
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return false
	}
	if strings.HasSuffix(name, ".lock") {
		return false
	}
	if strings.Contains(name, "/.") || strings.Contains(name, "..") || strings.Contains(name, "@{") {
		return false
	}
	for _, c := range name {
		if c <= 0x20 || c == 0x7F {
			return false
		}
		switch c {
		case '*', ':', '?', '[', '\\', '^', '~':
			return false
		}
	}
	return true
}
