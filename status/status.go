// Package status reconciles HEAD's tree, the staging index, and the
// worktree into the three-way change set git status reports, and
// renders that set either as porcelain machine output or as the
// human-readable grouped sections.
package status

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lumenvcs/lumen/index"
	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ChangeType classifies what happened to a path.
type ChangeType int

const (
	Modified ChangeType = iota
	Created
	Deleted
)

// Location is which side of the three-way comparison a Change was
// observed on.
type Location int

const (
	// IndexLocation marks a change between HEAD's tree and the index
	// (a staged change).
	IndexLocation Location = iota
	// WorktreeLocation marks a change between the index and the
	// worktree (an unstaged change).
	WorktreeLocation
)

// Change is one path whose state differs between two of the three
// inputs (HEAD tree, index, worktree).
type Change struct {
	Path     string
	Type     ChangeType
	Location Location
}

// Result is the full reconciliation: every staged/unstaged change plus
// every untracked path, both sorted.
type Result struct {
	Changes   []Change
	Untracked []string
}

// CommittedTree flattens the tree rooted at treeID into a path->blob-id
// map, the shape Scan needs for the HEAD-tree side of the comparison. A
// repository with no commits yet has no tree; callers pass an empty map.
func CommittedTree(store *odb.Store, treeID plumbing.Oid) (map[string]plumbing.Oid, error) {
	committed := map[string]plumbing.Oid{}
	err := store.WalkTree(treeID, func(path string, entry object.TreeEntry) error {
		if entry.Mode != object.ModeDirectory {
			committed[path] = entry.ID
		}
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not walk HEAD tree: %w", err)
	}
	return committed, nil
}

// Scan reconciles committed (HEAD's tree, possibly empty), idx (the
// loaded index, mutated in place when the mtime optimization confirms a
// file is unchanged) and the worktree rooted at worktreeRoot on fs.
// refreshed reports whether idx was mutated and must be persisted by the
// caller.
func Scan(store *odb.Store, committed map[string]plumbing.Oid, idx *index.Index, fs afero.Fs, worktreeRoot string) (Result, bool, error) {
	var changes []Change
	refreshed := false

	entries := idx.Entries()
	tracked := make(map[string]bool, len(entries))
	for _, e := range entries {
		tracked[e.Path] = true

		committedID, inHead := committed[e.Path]
		switch {
		case !inHead:
			changes = append(changes, Change{Path: e.Path, Type: Created, Location: IndexLocation})
		case committedID != e.ID:
			changes = append(changes, Change{Path: e.Path, Type: Modified, Location: IndexLocation})
		}

		unstaged, entryRefreshed, err := unstagedChange(fs, worktreeRoot, idx, e)
		if err != nil {
			return Result{}, false, err
		}
		if entryRefreshed {
			refreshed = true
		}
		if unstaged != nil {
			changes = append(changes, *unstaged)
		}
	}

	for path := range committed {
		if !tracked[path] {
			changes = append(changes, Change{Path: path, Type: Deleted, Location: IndexLocation})
		}
	}

	untracked, err := untrackedPaths(fs, worktreeRoot, idx)
	if err != nil {
		return Result{}, false, err
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Path != changes[j].Path {
			return changes[i].Path < changes[j].Path
		}
		return changes[i].Location < changes[j].Location
	})
	sort.Strings(untracked)

	return Result{Changes: changes, Untracked: untracked}, refreshed, nil
}

// unstagedChange compares e (an index entry) against the worktree file
// at the same path, applying the mtime shortcut before falling back to
// a content hash. It mutates e's mtime fields in idx when the hash
// confirms the file is unchanged, returning refreshed=true in that case.
func unstagedChange(fs afero.Fs, worktreeRoot string, idx *index.Index, e index.Entry) (*Change, bool, error) {
	full := filepath.Join(worktreeRoot, filepath.FromSlash(e.Path))

	info, err := fs.Stat(full)
	if os.IsNotExist(err) {
		return &Change{Path: e.Path, Type: Deleted, Location: WorktreeLocation}, false, nil
	}
	if err != nil {
		return nil, false, xerrors.Errorf("could not stat %s: %w", e.Path, err)
	}

	if info.ModTime().Equal(e.MTime) {
		return nil, false, nil
	}

	content, err := afero.ReadFile(fs, full)
	if err != nil {
		return nil, false, xerrors.Errorf("could not read %s: %w", e.Path, err)
	}

	id := object.NewBlob(content).ID()
	if id == e.ID {
		e.CTime = info.ModTime()
		e.MTime = info.ModTime()
		idx.AddEntry(e)
		return nil, true, nil
	}

	return &Change{Path: e.Path, Type: Modified, Location: WorktreeLocation}, false, nil
}

// untrackedPaths walks the worktree and returns every path that isn't
// tracked by idx, collapsing a wholly untracked directory into one
// trailing-slash entry instead of listing every file beneath it.
func untrackedPaths(fs afero.Fs, worktreeRoot string, idx *index.Index) ([]string, error) {
	var untracked []string

	err := afero.Walk(fs, worktreeRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == worktreeRoot {
			return nil
		}

		rel := filepath.ToSlash(strings.TrimPrefix(path, worktreeRoot+string(filepath.Separator)))
		if isVCSPath(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if idx.IsTrackedDirectory(rel) {
				return nil
			}
			untracked = append(untracked, rel+"/")
			return filepath.SkipDir
		}

		if !idx.HasEntry(rel) {
			untracked = append(untracked, rel)
		}
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not walk worktree: %w", err)
	}

	return untracked, nil
}

func isVCSPath(rel string) bool {
	return rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator))
}
