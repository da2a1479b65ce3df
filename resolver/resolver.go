// Package resolver walks a commit's tree lazily, caching every tree
// and blob it touches for the lifetime of one operation (status,
// diff, restore) so repeated lookups under the same commit never hit
// the object database twice for the same path.
package resolver

import (
	"errors"
	"strings"

	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"golang.org/x/xerrors"
)

// ErrNoMatch is returned when a path has no corresponding entry in the
// resolved commit's tree.
var ErrNoMatch = errors.New("pathspec did not match any files")

// Resolver resolves worktree-relative paths against a single commit's
// root tree, caching every intermediate tree and every blob it has
// already read.
type Resolver struct {
	store *odb.Store

	// trees is keyed by the directory's path relative to the root,
	// with "" naming the root tree itself.
	trees map[string]*object.Tree
	blobs map[string]*object.Blob
}

// New builds a Resolver rooted at commitID's tree.
func New(store *odb.Store, commitID plumbing.Oid) (*Resolver, error) {
	c, err := store.LoadCommit(commitID)
	if err != nil {
		return nil, xerrors.Errorf("could not load commit %s: %w", commitID.Short(), err)
	}
	root, err := store.LoadTree(c.TreeID())
	if err != nil {
		return nil, xerrors.Errorf("could not load root tree of commit %s: %w", commitID.Short(), err)
	}
	return &Resolver{
		store: store,
		trees: map[string]*object.Tree{"": root},
		blobs: map[string]*object.Blob{},
	}, nil
}

// split breaks a relative path into its components; an empty path has
// none.
func split(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func join(components []string) string {
	return strings.Join(components, "/")
}

// entryFor looks up name among dir's entries.
func entryFor(dir *object.Tree, name string) (object.TreeEntry, bool) {
	for _, e := range dir.Entries() {
		if e.Path == name {
			return e, true
		}
	}
	return object.TreeEntry{}, false
}

// resolveTree returns the cached tree at dirPath, loading and caching
// every not-yet-seen ancestor along the way. dirPath must name a
// directory (or be "" for the root); it fails if any component is
// missing or isn't itself a directory.
func (r *Resolver) resolveTree(dirPath string) (*object.Tree, error) {
	if t, ok := r.trees[dirPath]; ok {
		return t, nil
	}

	components := split(dirPath)
	// find the longest already-cached ancestor (dirPath itself was
	// just checked above and missed, so start one level up)
	start := 0
	var current *object.Tree
	for i := len(components) - 1; i >= 0; i-- {
		if t, ok := r.trees[join(components[:i])]; ok {
			current = t
			start = i
			break
		}
	}

	for i := start; i < len(components); i++ {
		entry, ok := entryFor(current, components[i])
		if !ok || entry.Mode != object.ModeDirectory {
			return nil, xerrors.Errorf("pathspec '%s' did not match any files: %w", dirPath, ErrNoMatch)
		}
		sub, err := r.store.LoadTree(entry.ID)
		if err != nil {
			return nil, xerrors.Errorf("could not load tree at %s: %w", join(components[:i+1]), err)
		}
		r.trees[join(components[:i+1])] = sub
		current = sub
	}

	return current, nil
}

// FindBlobByPath resolves p to a blob, loading and caching every
// intermediate tree and the blob itself along the way.
func (r *Resolver) FindBlobByPath(p string) (*object.Blob, error) {
	if b, ok := r.blobs[p]; ok {
		return b, nil
	}

	components := split(p)
	if len(components) == 0 {
		return nil, xerrors.Errorf("pathspec '%s' did not match any files: %w", p, ErrNoMatch)
	}

	parent, err := r.resolveTree(join(components[:len(components)-1]))
	if err != nil {
		return nil, err
	}

	entry, ok := entryFor(parent, components[len(components)-1])
	if !ok || entry.Mode == object.ModeDirectory {
		return nil, xerrors.Errorf("pathspec '%s' did not match any files: %w", p, ErrNoMatch)
	}

	blob, err := r.store.LoadBlob(entry.ID)
	if err != nil {
		return nil, xerrors.Errorf("could not load blob at %s: %w", p, err)
	}
	r.blobs[p] = blob
	return blob, nil
}

// FindTreeByPath resolves p to a tree, the empty path naming the root.
func (r *Resolver) FindTreeByPath(p string) (*object.Tree, error) {
	return r.resolveTree(p)
}
