package lumen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumenvcs/lumen/diff"
	"github.com/lumenvcs/lumen/index"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"github.com/lumenvcs/lumen/refs"
	"github.com/lumenvcs/lumen/resolver"
	"github.com/lumenvcs/lumen/status"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// fs is the filesystem status/diff walk the worktree on.
func (r *Repository) fs() afero.Fs {
	return afero.NewOsFs()
}

// ErrPathspecNoMatch is returned by operations that resolve a worktree
// path against the index or a commit's tree when nothing matches.
var ErrPathspecNoMatch = errors.New("pathspec did not match any files")

// ErrDuplicateBranch is returned by Branch when name already exists.
var ErrDuplicateBranch = refs.ErrRefExists

// absPath resolves a worktree-relative path (forward-slash, as stored
// in the index) to an absolute filesystem path.
func (r *Repository) absPath(relPath string) string {
	return filepath.Join(r.WorkTree(), filepath.FromSlash(relPath))
}

// Add stages relPath: if it names a directory, every file under it is
// staged; if it no longer exists on disk, it is removed from the index
// instead (matching `git add` on a deleted tracked file). The index is
// persisted under lock before Add returns.
func (r *Repository) Add(relPath string) error {
	li, err := r.LoadIndex()
	if err != nil {
		return err
	}

	if err := r.stage(li.Index(), relPath); err != nil {
		_ = li.Rollback()
		return err
	}

	return li.Commit()
}

func (r *Repository) stage(idx *index.Index, relPath string) error {
	abs := r.absPath(relPath)

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		if !idx.HasEntry(relPath) {
			return xerrors.Errorf("pathspec '%s' did not match any files: %w", relPath, ErrPathspecNoMatch)
		}
		idx.Remove(relPath)
		return nil
	}
	if err != nil {
		return xerrors.Errorf("could not stat %s: %w", relPath, err)
	}

	if info.IsDir() {
		return filepath.Walk(abs, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if filepath.Base(path) == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(r.WorkTree(), path)
			if err != nil {
				return err
			}
			return r.stageFile(idx, filepath.ToSlash(rel), fi)
		})
	}

	return r.stageFile(idx, relPath, info)
}

func (r *Repository) stageFile(idx *index.Index, relPath string, info os.FileInfo) error {
	content, err := os.ReadFile(r.absPath(relPath))
	if err != nil {
		return xerrors.Errorf("could not read %s: %w", relPath, err)
	}

	blob := object.NewBlob(content)
	if _, err := r.store.WriteObject(blob.ToObject()); err != nil {
		return xerrors.Errorf("could not store %s: %w", relPath, err)
	}

	mode := index.ModeFile
	if info.Mode()&0o111 != 0 {
		mode = index.ModeExecutable
	}

	dev, ino, uid, gid, ctime := statExtra(info)
	idx.AddEntry(index.Entry{
		CTime: ctime,
		MTime: info.ModTime(),
		Dev:   dev,
		Ino:   ino,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Size:  uint32(info.Size()),
		ID:    blob.ID(),
		Path:  relPath,
	})
	return nil
}

// Remove unstages relPath. The worktree file, if any, is left alone.
func (r *Repository) Remove(relPath string) error {
	li, err := r.LoadIndex()
	if err != nil {
		return err
	}
	li.Index().Remove(relPath)
	return li.Commit()
}

// headOid returns the commit HEAD currently points at, and false if
// HEAD's branch has no commits yet (a fresh repository).
func (r *Repository) headOid() (plumbing.Oid, bool, error) {
	id, err := refs.Deref(r.GitDir(), refs.HeadName)
	if errors.Is(err, refs.ErrRefNotFound) {
		return plumbing.NullOid, false, nil
	}
	if err != nil {
		return plumbing.NullOid, false, err
	}
	return id, true, nil
}

// Commit builds a commit from the currently staged index: a tree per
// directory of staged entries, parented on the current HEAD commit (if
// any), stamped with the repository's configured identity and message.
// The current branch (or HEAD directly, if detached) is advanced to the
// new commit. It returns the one-line summary `git commit` prints.
func (r *Repository) Commit(message string) (string, error) {
	li, err := r.LoadIndex()
	if err != nil {
		return "", err
	}
	defer func() { _ = li.Rollback() }()

	entries := li.Index().Entries()
	treeID, err := buildTrees(r.store, entries)
	if err != nil {
		return "", err
	}

	parentID, hasParent, err := r.headOid()
	if err != nil {
		return "", err
	}

	opts := object.CommitOptions{Message: message}
	if hasParent {
		opts.ParentIDs = []plumbing.Oid{parentID}
	}

	id := r.Identity()
	author := object.NewSignature(id.Name, id.Email)
	commit := object.NewCommit(treeID, author, opts)
	if _, err := r.store.WriteObject(commit.ToObject()); err != nil {
		return "", xerrors.Errorf("could not store commit: %w", err)
	}

	head, err := refs.ReadHead(r.GitDir())
	if err != nil {
		return "", err
	}
	if head.Detached {
		if err := refs.WriteHeadDetached(r.GitDir(), commit.ID()); err != nil {
			return "", err
		}
	} else {
		if err := refs.WriteRef(r.GitDir(), head.Branch, commit.ID()); err != nil {
			return "", err
		}
	}

	firstLine := message
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		firstLine = message[:idx]
	}

	prefix := commit.ID().Short()
	if !hasParent {
		prefix = "root commit " + prefix
	}
	return fmt.Sprintf("[%s] %s", prefix, firstLine), nil
}

// Restore overwrites the worktree copy of relPath with its content as
// of source (a revision expression; "HEAD" if empty).
func (r *Repository) Restore(relPath, source string) error {
	if source == "" {
		source = refs.HeadName
	}

	commitID, err := refs.Resolve(r.GitDir(), r.store, source)
	if err != nil {
		return err
	}

	res, err := resolver.New(r.store, commitID)
	if err != nil {
		return err
	}

	blob, err := res.FindBlobByPath(relPath)
	if errors.Is(err, resolver.ErrNoMatch) {
		return xerrors.Errorf("pathspec '%s' did not match any files: %w", relPath, ErrPathspecNoMatch)
	}
	if err != nil {
		return err
	}

	return atomicWriteFile(r.absPath(relPath), blob.Bytes())
}

// Branch creates refs/heads/name pointing at the commit start resolves
// to ("HEAD" if empty). Creating a branch that already exists fails.
func (r *Repository) Branch(name, start string) error {
	if start == "" {
		start = refs.HeadName
	}
	id, err := refs.Resolve(r.GitDir(), r.store, start)
	if err != nil {
		return err
	}
	return refs.CreateRef(r.GitDir(), name, id)
}

// LogEntry is one commit as Log walks the first-parent chain.
type LogEntry struct {
	ID      plumbing.Oid
	OnHead  bool
	Branch  string
	Author  object.Signature
	Message string
}

// Log walks the first-parent chain starting at HEAD, stopping after
// maxCount commits (0 means unbounded).
func (r *Repository) Log(maxCount int) ([]LogEntry, error) {
	id, hasHead, err := r.headOid()
	if err != nil {
		return nil, err
	}
	if !hasHead {
		return nil, nil
	}

	head, err := refs.ReadHead(r.GitDir())
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for {
		if maxCount > 0 && len(entries) >= maxCount {
			break
		}
		c, err := r.store.LoadCommit(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{
			ID:      id,
			OnHead:  len(entries) == 0 && !head.Detached,
			Branch:  head.Branch,
			Author:  c.Author(),
			Message: c.Message(),
		})

		parent, ok := c.FirstParentID()
		if !ok {
			break
		}
		id = parent
	}

	return entries, nil
}

// RevParse parses and resolves expr against this repository, returning
// the resolved 40-hex object id.
func (r *Repository) RevParse(expr string) (plumbing.Oid, error) {
	return refs.Resolve(r.GitDir(), r.store, expr)
}

// Status reconciles HEAD's tree, the index, and the worktree, refreshing
// and persisting index mtimes along the way when the optimization in
// status.Scan confirms a file is unchanged.
func (r *Repository) Status() (status.Result, error) {
	li, err := r.LoadIndex()
	if err != nil {
		return status.Result{}, err
	}

	committed, err := r.committedTree()
	if err != nil {
		_ = li.Rollback()
		return status.Result{}, err
	}

	result, refreshed, err := status.Scan(r.store, committed, li.Index(), r.fs(), r.WorkTree())
	if err != nil {
		_ = li.Rollback()
		return status.Result{}, err
	}

	if refreshed {
		return result, li.Commit()
	}
	return result, li.Rollback()
}

func (r *Repository) committedTree() (map[string]plumbing.Oid, error) {
	id, hasHead, err := r.headOid()
	if err != nil {
		return nil, err
	}
	if !hasHead {
		return map[string]plumbing.Oid{}, nil
	}
	c, err := r.store.LoadCommit(id)
	if err != nil {
		return nil, err
	}
	return status.CommittedTree(r.store, c.TreeID())
}

// Diff renders the unstaged worktree diff: index content vs worktree
// bytes, for every path status reports as an unstaged Modified or
// Deleted change.
func (r *Repository) Diff() (string, error) {
	idx, err := r.LoadIndexUnlocked()
	if err != nil {
		return "", err
	}
	committed, err := r.committedTree()
	if err != nil {
		return "", err
	}
	result, _, err := status.Scan(r.store, committed, idx, r.fs(), r.WorkTree())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range result.Changes {
		if c.Location != status.WorktreeLocation {
			continue
		}
		e, _ := idx.Entry(c.Path)

		aBlob, err := r.store.LoadBlob(e.ID)
		if err != nil {
			return "", err
		}
		var bContent []byte
		bID := plumbing.NullOid
		if c.Type != status.Deleted {
			bContent, err = os.ReadFile(r.absPath(c.Path))
			if err != nil {
				return "", err
			}
			bID = object.NewBlob(bContent).ID()
		}
		b.WriteString(diff.FileDiff(c.Path, e.ID, bID, aBlob.Bytes(), bContent))
	}
	return b.String(), nil
}

// DiffCached renders the staged diff: HEAD's tree vs the index.
func (r *Repository) DiffCached() (string, error) {
	idx, err := r.LoadIndexUnlocked()
	if err != nil {
		return "", err
	}
	committed, err := r.committedTree()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, e := range idx.Entries() {
		committedID, inHead := committed[e.Path]
		if inHead && committedID == e.ID {
			continue
		}

		var aContent []byte
		aID := plumbing.NullOid
		if inHead {
			aID = committedID
			blob, err := r.store.LoadBlob(aID)
			if err != nil {
				return "", err
			}
			aContent = blob.Bytes()
		}
		bBlob, err := r.store.LoadBlob(e.ID)
		if err != nil {
			return "", err
		}
		b.WriteString(diff.FileDiff(e.Path, aID, e.ID, aContent, bBlob.Bytes()))
	}
	return b.String(), nil
}

// DiffRefs compares the root trees of two revisions structurally,
// rendering a full text diff for every path that differs.
func (r *Repository) DiffRefs(a, b string) (string, error) {
	aID, err := refs.Resolve(r.GitDir(), r.store, a)
	if err != nil {
		return "", err
	}
	bID, err := refs.Resolve(r.GitDir(), r.store, b)
	if err != nil {
		return "", err
	}

	aCommit, err := r.store.LoadCommit(aID)
	if err != nil {
		return "", err
	}
	bCommit, err := r.store.LoadCommit(bID)
	if err != nil {
		return "", err
	}

	aTree, err := r.store.LoadTree(aCommit.TreeID())
	if err != nil {
		return "", err
	}
	bTree, err := r.store.LoadTree(bCommit.TreeID())
	if err != nil {
		return "", err
	}

	changes, err := diff.CompareTrees(r.store, aTree, bTree)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, c := range changes {
		rendered, err := c.Render(r.store)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
	}
	return out.String(), nil
}

// SwitchPlan resolves rev and reports the worktree edits switching to
// it would make, without touching HEAD, the index, or the worktree.
// It is a debug affordance: the real restore/checkout path is Restore.
func (r *Repository) SwitchPlan(rev string) ([]diff.TreeChange, error) {
	targetID, err := refs.Resolve(r.GitDir(), r.store, rev)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve %q: %w", rev, err)
	}
	targetCommit, err := r.store.LoadCommit(targetID)
	if err != nil {
		return nil, err
	}
	targetTree, err := r.store.LoadTree(targetCommit.TreeID())
	if err != nil {
		return nil, err
	}

	headID, hasHead, err := r.headOid()
	if err != nil {
		return nil, err
	}
	if !hasHead {
		return diff.CompareTrees(r.store, object.NewTree(nil), targetTree)
	}
	headCommit, err := r.store.LoadCommit(headID)
	if err != nil {
		return nil, err
	}
	headTree, err := r.store.LoadTree(headCommit.TreeID())
	if err != nil {
		return nil, err
	}

	return diff.CompareTrees(r.store, headTree, targetTree)
}

// Switch moves HEAD to rev: symbolically to the branch named rev, or,
// when detach is set, directly to rev's resolved commit id.
func (r *Repository) Switch(rev string, detach bool) (plumbing.Oid, error) {
	id, err := refs.Resolve(r.GitDir(), r.store, rev)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not resolve %q: %w", rev, err)
	}

	if detach {
		if err := refs.WriteHeadDetached(r.GitDir(), id); err != nil {
			return plumbing.NullOid, err
		}
		return id, nil
	}

	if _, err := refs.Deref(r.GitDir(), rev); err != nil {
		return plumbing.NullOid, xerrors.Errorf("%q is not a branch: %w", rev, err)
	}
	if err := refs.WriteHeadSymbolic(r.GitDir(), rev); err != nil {
		return plumbing.NullOid, err
	}
	return id, nil
}

// atomicWriteFile writes content to path via a temp-file-and-rename, the
// same discipline fsutil uses for refs and the index.
func atomicWriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return xerrors.Errorf("could not create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return xerrors.Errorf("could not write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return xerrors.Errorf("could not write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
