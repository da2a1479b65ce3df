// Package config resolves a repository's configuration: where its
// .git directory and object store live, and the author identity used
// when creating commits. Resolution order follows git's own rules:
// explicit options, then environment variables, then the gitconfig
// files on disk, then a small set of hardcoded defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumenvcs/lumen/internal/env"
	"github.com/lumenvcs/lumen/internal/gitpath"
	"github.com/lumenvcs/lumen/internal/pathutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrNoWorkTreeAlone is returned when a work tree is given without a
// git directory.
var ErrNoWorkTreeAlone = errors.New("cannot specify a work tree without also specifying a git dir")

// DefaultAuthorName and DefaultAuthorEmail are used when no identity
// can be resolved from the environment or from gitconfig.
const (
	DefaultAuthorName  = "unknown"
	DefaultAuthorEmail = "unknown@localhost"
)

// Config represents the resolved configuration of a repository: the
// paths that make it up, plus whatever was found in the gitconfig
// files backing it up.
type Config struct {
	// FS is the filesystem implementation used to look up gitconfig
	// files. Defaults to the real filesystem.
	FS afero.Fs

	fromFiles *FileAggregate

	// GitDirPath is the path to the .git directory.
	// Maps to $GIT_DIR.
	GitDirPath string
	// WorkTreePath is the path to the working tree.
	// Maps to $GIT_WORK_TREE.
	WorkTreePath string
	// ObjectDirPath is the path to the object store.
	// Maps to $GIT_OBJECT_DIRECTORY.
	ObjectDirPath string
	// LocalConfig is the path to the repository's own config file.
	// Maps to $GIT_CONFIG.
	LocalConfig string
	// Prefix is the base used to find the system gitconfig.
	// Maps to $PREFIX.
	Prefix string
	// SkipSystemConfig disables reading the system gitconfig.
	// Maps to $GIT_CONFIG_NOSYSTEM.
	SkipSystemConfig bool
}

// LoadOptions overrides the defaults LoadConfig would otherwise derive
// from the environment.
type LoadOptions struct {
	// FS is the filesystem implementation to use.
	// Defaults to the real filesystem.
	FS afero.Fs
	// WorkingDirectory is the directory resolution is relative to.
	// Defaults to the process's current working directory.
	WorkingDirectory string
	// WorkTreePath overrides $GIT_WORK_TREE.
	WorkTreePath string
	// GitDirPath overrides $GIT_DIR.
	GitDirPath string
	// SkipGitDirLookUp disables walking up the tree looking for a
	// .git directory. Only set this to true when initializing a new
	// repository.
	SkipGitDirLookUp bool
}

// Identity is the author/committer identity used to stamp new commits.
type Identity struct {
	Name  string
	Email string
}

// LoadConfig resolves a Config from the environment, gitconfig files,
// and the given options, in that precedence order (options win,
// then env, then files, then defaults).
func LoadConfig(e *env.Env, opts LoadOptions) (*Config, error) {
	skipSystem := false
	switch strings.ToLower(e.Get("GIT_CONFIG_NOSYSTEM")) {
	case "yes", "1", "true":
		skipSystem = true
	}

	cfg := &Config{
		GitDirPath:       e.Get("GIT_DIR"),
		WorkTreePath:     e.Get("GIT_WORK_TREE"),
		ObjectDirPath:    e.Get("GIT_OBJECT_DIRECTORY"),
		LocalConfig:      e.Get("GIT_CONFIG"),
		Prefix:           e.Get("PREFIX"),
		SkipSystemConfig: skipSystem,
	}

	if err := resolve(e, cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolve(e *env.Env, cfg *Config, opts LoadOptions) (err error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	cfg.FS = opts.FS

	wd, err := os.Getwd()
	if err != nil {
		return xerrors.Errorf("could not get current working directory: %w", err)
	}
	if opts.WorkingDirectory == "" {
		opts.WorkingDirectory = wd
	}
	if !filepath.IsAbs(opts.WorkingDirectory) {
		opts.WorkingDirectory = filepath.Join(wd, opts.WorkingDirectory)
	}

	if opts.GitDirPath == "" && cfg.GitDirPath == "" && (opts.WorkTreePath != "" || cfg.WorkTreePath != "") {
		return ErrNoWorkTreeAlone
	}

	if opts.GitDirPath != "" {
		cfg.GitDirPath = opts.GitDirPath
	}
	guessedWorkTree := opts.WorkingDirectory
	switch cfg.GitDirPath {
	case "":
		if !opts.SkipGitDirLookUp {
			guessedWorkTree, err = pathutil.WorkingTreeFromPath(opts.WorkingDirectory)
			if err != nil {
				return xerrors.Errorf("could not find working tree: %w", err)
			}
		}
		cfg.GitDirPath = filepath.Join(guessedWorkTree, gitpath.DotGitPath)
	default:
		if !filepath.IsAbs(cfg.GitDirPath) {
			cfg.GitDirPath = filepath.Join(opts.WorkingDirectory, cfg.GitDirPath)
		}
	}

	if cfg.LocalConfig == "" {
		cfg.LocalConfig = filepath.Join(cfg.GitDirPath, gitpath.ConfigPath)
	}
	if !filepath.IsAbs(cfg.LocalConfig) {
		cfg.LocalConfig = filepath.Join(opts.WorkingDirectory, cfg.LocalConfig)
	}

	if cfg.ObjectDirPath == "" {
		cfg.ObjectDirPath = filepath.Join(cfg.GitDirPath, gitpath.ObjectsPath)
	}
	if !filepath.IsAbs(cfg.ObjectDirPath) {
		cfg.ObjectDirPath = filepath.Join(opts.WorkingDirectory, cfg.ObjectDirPath)
	}

	cfg.fromFiles, err = NewFileAggregate(e, cfg)
	if err != nil {
		return xerrors.Errorf("could not load config files: %w", err)
	}

	if path, ok := cfg.fromFiles.WorkTree(); ok && cfg.WorkTreePath == "" {
		cfg.WorkTreePath = path
	}
	if opts.WorkTreePath != "" {
		cfg.WorkTreePath = opts.WorkTreePath
	}
	if cfg.WorkTreePath == "" {
		cfg.WorkTreePath = guessedWorkTree
	}
	if !filepath.IsAbs(cfg.WorkTreePath) {
		cfg.WorkTreePath = filepath.Join(opts.WorkingDirectory, cfg.WorkTreePath)
	}

	return nil
}

// Identity returns the author identity to stamp new commits with:
// $GIT_AUTHOR_NAME/$GIT_AUTHOR_EMAIL first, then user.name/user.email
// from gitconfig, then a hardcoded default.
func (cfg *Config) Identity(e *env.Env) Identity {
	id := Identity{Name: DefaultAuthorName, Email: DefaultAuthorEmail}

	if name, ok := cfg.fromFiles.AuthorName(); ok {
		id.Name = name
	}
	if email, ok := cfg.fromFiles.AuthorEmail(); ok {
		id.Email = email
	}

	if name := e.Get("GIT_AUTHOR_NAME"); name != "" {
		id.Name = name
	}
	if email := e.Get("GIT_AUTHOR_EMAIL"); email != "" {
		id.Email = email
	}

	return id
}

// DefaultBranch returns the branch name newly initialized repositories
// should point HEAD at.
func (cfg *Config) DefaultBranch() string {
	if name, ok := cfg.fromFiles.DefaultBranch(); ok {
		return name
	}
	return "main"
}

// Save persists any changes made to the repository's own config file.
func (cfg *Config) Save() error {
	return cfg.fromFiles.Save()
}
