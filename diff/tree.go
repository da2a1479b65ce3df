package diff

import (
	"path"
	"sort"

	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"golang.org/x/xerrors"
)

// ChangeType classifies how a path differs between two trees.
type ChangeType int

const (
	Modified ChangeType = iota
	Created
	Deleted
)

// TreeChange is one path that differs between two trees, along with the
// blob ids on either side (the zero Oid on the side where the path is
// absent).
type TreeChange struct {
	Path     string
	Type     ChangeType
	AID, BID plumbing.Oid
}

// CompareTrees walks aRoot and bRoot in lockstep, recursing into
// subtrees only where the two sides disagree, and returns every file
// path that differs, sorted by path. Both trees must already be loaded
// from store.
func CompareTrees(store *odb.Store, aRoot, bRoot *object.Tree) ([]TreeChange, error) {
	var changes []TreeChange
	if err := compareTrees(store, "", aRoot, bRoot, &changes); err != nil {
		return nil, err
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

func compareTrees(store *odb.Store, dir string, a, b *object.Tree, changes *[]TreeChange) error {
	aEntries := entryMap(a)
	bEntries := entryMap(b)

	for name, aEntry := range aEntries {
		bEntry, inB := bEntries[name]
		p := path.Join(dir, name)

		switch {
		case !inB:
			if err := collectAll(store, p, aEntry, Deleted, changes); err != nil {
				return err
			}
		case aEntry.ID == bEntry.ID && aEntry.Mode == bEntry.Mode:
			// identical subtree or blob: nothing to recurse into
		case aEntry.Mode == object.ModeDirectory && bEntry.Mode == object.ModeDirectory:
			aSub, err := store.LoadTree(aEntry.ID)
			if err != nil {
				return xerrors.Errorf("could not load tree at %s: %w", p, err)
			}
			bSub, err := store.LoadTree(bEntry.ID)
			if err != nil {
				return xerrors.Errorf("could not load tree at %s: %w", p, err)
			}
			if err := compareTrees(store, p, aSub, bSub, changes); err != nil {
				return err
			}
		case aEntry.Mode == object.ModeDirectory:
			// a has a directory where b has a file: the whole subtree
			// was replaced by one file
			if err := collectAll(store, p, aEntry, Deleted, changes); err != nil {
				return err
			}
			*changes = append(*changes, TreeChange{Path: p, Type: Created, BID: bEntry.ID})
		case bEntry.Mode == object.ModeDirectory:
			*changes = append(*changes, TreeChange{Path: p, Type: Deleted, AID: aEntry.ID})
			if err := collectAll(store, p, bEntry, Created, changes); err != nil {
				return err
			}
		default:
			*changes = append(*changes, TreeChange{Path: p, Type: Modified, AID: aEntry.ID, BID: bEntry.ID})
		}
	}

	for name, bEntry := range bEntries {
		if _, inA := aEntries[name]; inA {
			continue
		}
		p := path.Join(dir, name)
		if err := collectAll(store, p, bEntry, Created, changes); err != nil {
			return err
		}
	}

	return nil
}

// collectAll emits a change for entry itself (if it's a blob) or for
// every blob reachable under it (if it's a directory being wholly
// created or deleted), since a directory can't be diffed directly.
func collectAll(store *odb.Store, p string, entry object.TreeEntry, typ ChangeType, changes *[]TreeChange) error {
	if entry.Mode != object.ModeDirectory {
		switch typ {
		case Created:
			*changes = append(*changes, TreeChange{Path: p, Type: typ, BID: entry.ID})
		default:
			*changes = append(*changes, TreeChange{Path: p, Type: typ, AID: entry.ID})
		}
		return nil
	}

	sub, err := store.LoadTree(entry.ID)
	if err != nil {
		return xerrors.Errorf("could not load tree at %s: %w", p, err)
	}
	for _, e := range sub.Entries() {
		if err := collectAll(store, path.Join(p, e.Path), e, typ, changes); err != nil {
			return err
		}
	}
	return nil
}

// Render loads whichever of c.AID/c.BID are non-zero from store and
// renders the full "diff --git" text for the change.
func (c TreeChange) Render(store *odb.Store) (string, error) {
	var aContent, bContent []byte

	if !c.AID.IsZero() {
		blob, err := store.LoadBlob(c.AID)
		if err != nil {
			return "", xerrors.Errorf("could not load blob at %s: %w", c.Path, err)
		}
		aContent = blob.Bytes()
	}
	if !c.BID.IsZero() {
		blob, err := store.LoadBlob(c.BID)
		if err != nil {
			return "", xerrors.Errorf("could not load blob at %s: %w", c.Path, err)
		}
		bContent = blob.Bytes()
	}

	return FileDiff(c.Path, c.AID, c.BID, aContent, bContent), nil
}

func entryMap(t *object.Tree) map[string]object.TreeEntry {
	m := make(map[string]object.TreeEntry, len(t.Entries()))
	for _, e := range t.Entries() {
		m[e.Path] = e
	}
	return m
}
