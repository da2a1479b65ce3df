// Package lumen ties the object database, the staging index, and refs
// together into a single repository handle, and implements the
// porcelain operations (add, commit, status, diff, restore, branch,
// log, rev-parse) on top of it.
package lumen

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/lumenvcs/lumen/config"
	"github.com/lumenvcs/lumen/index"
	"github.com/lumenvcs/lumen/internal/env"
	"github.com/lumenvcs/lumen/internal/fsutil"
	"github.com/lumenvcs/lumen/internal/gitpath"
	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/refs"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Errors returned while opening or creating a repository.
var (
	ErrRepositoryNotExist = errors.New("repository does not exist")
	ErrRepositoryExists   = errors.New("repository already exists")
)

// Repository ties a working tree to the .git directory backing it: the
// resolved config, the object store, and the paths everything else
// (refs, index) is read from and written to.
type Repository struct {
	cfg   *config.Config
	env   *env.Env
	store *odb.Store
}

// GitDir returns the absolute path to the repository's .git directory.
func (r *Repository) GitDir() string {
	return r.cfg.GitDirPath
}

// WorkTree returns the absolute path to the repository's working tree.
func (r *Repository) WorkTree() string {
	return r.cfg.WorkTreePath
}

// Store returns the repository's object database.
func (r *Repository) Store() *odb.Store {
	return r.store
}

// Identity returns the {name, email} pair new commits are stamped
// with: $GIT_AUTHOR_NAME/$GIT_AUTHOR_EMAIL if set, else user.name/
// user.email from gitconfig, else a hardcoded default.
func (r *Repository) Identity() config.Identity {
	return r.cfg.Identity(r.env)
}

// indexPath is the absolute path to this repository's staging file.
func (r *Repository) indexPath() string {
	return filepath.Join(r.cfg.GitDirPath, gitpath.IndexPath)
}

// LoadIndexUnlocked parses the index without acquiring the index lock.
// Safe for read-only callers (status, diff, log); callers that mean to
// mutate and persist the index must use LoadIndex instead.
func (r *Repository) LoadIndexUnlocked() (*index.Index, error) {
	return index.Load(afero.NewOsFs(), r.indexPath())
}

// LockedIndex is an in-memory index paired with the lockfile guarding
// its on-disk counterpart. The lock is held from LoadIndex until
// Commit or Rollback releases it.
type LockedIndex struct {
	idx  *index.Index
	lock *fsutil.LockFile
}

// Index returns the underlying index, which can be mutated freely;
// nothing is persisted until Commit is called.
func (li *LockedIndex) Index() *index.Index {
	return li.idx
}

// Commit serializes the index and atomically replaces the on-disk
// file with it, releasing the lock.
func (li *LockedIndex) Commit() error {
	if err := li.lock.Write(index.Encode(li.idx)); err != nil {
		return err
	}
	return li.lock.Commit()
}

// Rollback releases the lock without writing anything, leaving the
// on-disk index untouched.
func (li *LockedIndex) Rollback() error {
	return li.lock.Rollback()
}

// LoadIndex acquires the index lock and parses the current on-disk
// index. The caller must call Commit or Rollback on the result to
// release the lock, even on an error path past this call.
func (r *Repository) LoadIndex() (*LockedIndex, error) {
	path := r.indexPath()
	lock, err := fsutil.AcquireLock(path)
	if err != nil {
		return nil, err
	}

	idx, err := index.Load(afero.NewOsFs(), path)
	if err != nil {
		_ = lock.Rollback()
		return nil, err
	}

	return &LockedIndex{idx: idx, lock: lock}, nil
}

// loadConfig resolves a Config rooted at root, never walking up past it
// — the caller (typically the CLI, via internal/pathutil) is
// responsible for locating the working tree root first.
func loadConfig(root string) (*config.Config, *env.Env, error) {
	e := env.NewFromOs()
	cfg, err := config.LoadConfig(e, config.LoadOptions{
		WorkingDirectory: root,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, e, nil
}

// InitRepository creates a new repository rooted at root: the .git
// directory, its objects/ and refs/heads/ subdirectories, a HEAD
// symbolically pointing at the configured default branch, and a
// freshly materialized config file.
func InitRepository(root string) (*Repository, error) {
	cfg, e, err := loadConfig(root)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(cfg.GitDirPath, gitpath.HEADPath)); err == nil {
		return nil, ErrRepositoryExists
	}

	for _, dir := range []string{cfg.GitDirPath, cfg.ObjectDirPath, filepath.Join(cfg.GitDirPath, gitpath.RefsHeadsPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, xerrors.Errorf("could not create %s: %w", dir, err)
		}
	}

	branch := cfg.DefaultBranch()
	if err := refs.WriteHeadSymbolic(cfg.GitDirPath, branch); err != nil {
		return nil, xerrors.Errorf("could not initialize HEAD: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, xerrors.Errorf("could not write repository config: %w", err)
	}

	return &Repository{
		cfg:   cfg,
		env:   e,
		store: odb.NewStore(afero.NewOsFs(), cfg.ObjectDirPath),
	}, nil
}

// Open loads an existing repository rooted at root.
func Open(root string) (*Repository, error) {
	cfg, e, err := loadConfig(root)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(cfg.GitDirPath, gitpath.HEADPath)); err != nil {
		return nil, ErrRepositoryNotExist
	}

	return &Repository{
		cfg:   cfg,
		env:   e,
		store: odb.NewStore(afero.NewOsFs(), cfg.ObjectDirPath),
	}, nil
}
