// Package odb implements the loose-object database: the content-
// addressed store under .git/objects that every blob, tree, and commit
// is read from and written to.
package odb

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/lumenvcs/lumen/internal/cache"
	"github.com/lumenvcs/lumen/internal/errutil"
	"github.com/lumenvcs/lumen/internal/readutil"
	"github.com/lumenvcs/lumen/internal/syncutil"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrObjectNotFound is returned when no object exists for a given id.
var ErrObjectNotFound = errors.New("object not found")

// ErrAmbiguousPrefix is returned by PrefixMatch when more than one
// object id starts with the given prefix.
var ErrAmbiguousPrefix = errors.New("ambiguous object prefix")

// defaultCacheSize bounds the in-memory object cache. Loose objects
// are immutable once written, so caching them has no invalidation
// concerns; it only trades memory for fewer zlib inflate passes.
const defaultCacheSize = 256

// Store is the loose-object database rooted at a repository's
// .git/objects directory.
type Store struct {
	fs   afero.Fs
	root string

	cache  *cache.LRU
	loadMu *syncutil.NamedMutex
}

// NewStore returns a Store backed by objectsDir. fs defaults to the
// real filesystem when nil.
func NewStore(fs afero.Fs, objectsDir string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{
		fs:     fs,
		root:   objectsDir,
		cache:  cache.NewLRU(defaultCacheSize),
		loadMu: syncutil.NewNamedMutex(64),
	}
}

// loosePath returns the path an object with the given hex id is
// stored at: objects/xx/yyyy...
func (s *Store) loosePath(hex string) string {
	return filepath.Join(s.root, hex[:2], hex[2:])
}

// Exists reports whether an object with the given id is present in
// the store.
func (s *Store) Exists(oid plumbing.Oid) (bool, error) {
	_, err := s.fs.Stat(s.loosePath(oid.String()))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, xerrors.Errorf("could not stat object %s: %w", oid, err)
}

// Object reads and decompresses the object with the given id. It is
// safe to call concurrently.
func (s *Store) Object(oid plumbing.Oid) (o *object.Object, err error) {
	if cached, ok := s.cache.Get(oid); ok {
		return cached.(*object.Object), nil
	}

	p := s.loosePath(oid.String())
	f, err := s.fs.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, xerrors.Errorf("%s: %w", oid, ErrObjectNotFound)
		}
		return nil, xerrors.Errorf("could not open object %s: %w", oid, err)
	}
	defer errutil.Close(f, &err)

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, xerrors.Errorf("could not decompress object %s: %w", oid, err)
	}
	defer errutil.Close(zr, &err)

	buf, err := io.ReadAll(zr)
	if err != nil {
		return nil, xerrors.Errorf("could not read object %s: %w", oid, err)
	}

	o, err = parseFrame(buf)
	if err != nil {
		return nil, xerrors.Errorf("corrupt object %s: %w", oid, err)
	}

	s.cache.Add(oid, o)
	return o, nil
}

// parseFrame splits a "<type> <size>\0<content>" frame back into an
// Object, validating that the declared size matches the payload.
func parseFrame(buf []byte) (*object.Object, error) {
	typ := readutil.ReadTo(buf, ' ')
	if typ == nil {
		return nil, errors.New("missing type tag")
	}
	offset := len(typ) + 1

	oType, err := object.NewTypeFromString(string(typ))
	if err != nil {
		return nil, xerrors.Errorf("unsupported type %q: %w", typ, err)
	}

	size := readutil.ReadTo(buf[offset:], 0)
	if size == nil {
		return nil, errors.New("missing size")
	}
	offset += len(size) + 1

	declared, err := strconv.Atoi(string(size))
	if err != nil {
		return nil, xerrors.Errorf("invalid size %q: %w", size, err)
	}
	content := buf[offset:]
	if len(content) != declared {
		return nil, xerrors.Errorf("declared size %d does not match actual size %d", declared, len(content))
	}

	return object.New(oType, content), nil
}

// LoadBlob reads and parses the object with the given id as a Blob.
func (s *Store) LoadBlob(oid plumbing.Oid) (*object.Blob, error) {
	o, err := s.Object(oid)
	if err != nil {
		return nil, err
	}
	return o.AsBlob()
}

// LoadTree reads and parses the object with the given id as a Tree.
func (s *Store) LoadTree(oid plumbing.Oid) (*object.Tree, error) {
	o, err := s.Object(oid)
	if err != nil {
		return nil, err
	}
	return o.AsTree()
}

// LoadCommit reads and parses the object with the given id as a Commit.
func (s *Store) LoadCommit(oid plumbing.Oid) (*object.Commit, error) {
	o, err := s.Object(oid)
	if err != nil {
		return nil, err
	}
	return o.AsCommit()
}

// WriteObject compresses o and persists it under its content-addressed
// path, unless it's already there. It is safe to call concurrently;
// concurrent writers of the same id serialize on that id only.
func (s *Store) WriteObject(o *object.Object) (plumbing.Oid, error) {
	oid := o.ID()
	key := oid[:]
	s.loadMu.Lock(key)
	defer s.loadMu.Unlock(key)

	found, err := s.Exists(oid)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not check for existing object %s: %w", oid, err)
	}
	if found {
		return oid, nil
	}

	p := s.loosePath(oid.String())
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not create directory for object %s: %w", oid, err)
	}

	compressed, err := compress(o.Frame())
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not compress object %s: %w", oid, err)
	}

	// Objects are write-once: 0o444 signals on disk that they should
	// never be edited in place.
	if err := afero.WriteFile(s.fs, p, compressed, 0o444); err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not write object %s: %w", oid, err)
	}

	s.cache.Add(oid, o)
	return oid, nil
}

func compress(frame []byte) (data []byte, err error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	defer errutil.Close(zw, &err)

	if _, err = zw.Write(frame); err != nil {
		return nil, xerrors.Errorf("could not write to zlib stream: %w", err)
	}
	return buf.Bytes(), nil
}

// PrefixMatch resolves a (possibly abbreviated) hex prefix to the one
// object id in the store that starts with it. It returns
// ErrAmbiguousPrefix if more than one object matches, and
// ErrObjectNotFound if none does.
func (s *Store) PrefixMatch(prefix string) (plumbing.Oid, error) {
	if len(prefix) == plumbing.OidSize*2 {
		oid, err := plumbing.FromHex(prefix)
		if err != nil {
			return plumbing.NullOid, xerrors.Errorf("invalid object id %q: %w", prefix, err)
		}
		found, err := s.Exists(oid)
		if err != nil {
			return plumbing.NullOid, err
		}
		if !found {
			return plumbing.NullOid, xerrors.Errorf("%s: %w", prefix, ErrObjectNotFound)
		}
		return oid, nil
	}
	if len(prefix) < 2 {
		return plumbing.NullOid, xerrors.Errorf("prefix %q is too short", prefix)
	}

	dir := filepath.Join(s.root, prefix[:2])
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return plumbing.NullOid, xerrors.Errorf("%s: %w", prefix, ErrObjectNotFound)
		}
		return plumbing.NullOid, xerrors.Errorf("could not list objects under %s: %w", dir, err)
	}

	rest := prefix[2:]
	var match plumbing.Oid
	matches := 0
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), rest) {
			continue
		}
		oid, err := plumbing.FromHex(prefix[:2] + entry.Name())
		if err != nil {
			continue
		}
		match = oid
		matches++
		if matches > 1 {
			return plumbing.NullOid, xerrors.Errorf("%s: %w", prefix, ErrAmbiguousPrefix)
		}
	}
	if matches == 0 {
		return plumbing.NullOid, xerrors.Errorf("%s: %w", prefix, ErrObjectNotFound)
	}
	return match, nil
}

// WalkTreeFunc is called for every entry discovered while walking a
// tree. Returning an error aborts the walk.
type WalkTreeFunc func(path string, entry object.TreeEntry) error

// WalkTree recursively walks the tree rooted at oid, invoking fn for
// every entry (files and subdirectories alike) with path being the
// entry's path relative to the root.
func (s *Store) WalkTree(oid plumbing.Oid, fn WalkTreeFunc) error {
	return s.walkTree(oid, "", fn)
}

func (s *Store) walkTree(oid plumbing.Oid, prefix string, fn WalkTreeFunc) error {
	tree, err := s.LoadTree(oid)
	if err != nil {
		return xerrors.Errorf("could not load tree %s: %w", oid, err)
	}

	for _, entry := range tree.Entries() {
		path := entry.Path
		if prefix != "" {
			path = prefix + "/" + path
		}
		if err := fn(path, entry); err != nil {
			return err
		}
		if entry.Mode == object.ModeDirectory {
			if err := s.walkTree(entry.ID, path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
