package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lumenvcs/lumen/internal/env"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

var defaultLoadOptions = ini.LoadOptions{
	SkipUnrecognizableLines: true,
}

// defaultConfig builds the gitconfig a freshly initialized repository
// starts with.
func defaultConfig() (*ini.File, error) {
	cfg := ini.Empty(defaultLoadOptions)

	core := cfg.Section("core")
	coreCfg := map[string]string{
		"repositoryformatversion": "0",
		"filemode":                "true",
		"logallrefupdates":        "true",
	}
	for k, v := range coreCfg {
		if _, err := core.NewKey(k, v); err != nil {
			return nil, xerrors.Errorf("could not set core.%s: %w", k, err)
		}
	}

	return cfg, nil
}

// FileAggregate is the merged view of every gitconfig file that
// applies to a repository: system, global, and local, in increasing
// order of precedence.
type FileAggregate struct {
	cfg    *Config
	global *ini.File
	local  *ini.File
}

// Save persists the local (repository) config back to disk.
func (fa *FileAggregate) Save() error {
	return fa.local.SaveTo(fa.cfg.LocalConfig)
}

// value looks up key in section, preferring the local file over the
// global/system aggregate.
func (fa *FileAggregate) value(section, key string) (string, bool) {
	source := fa.global
	if fa.local.Section(section).HasKey(key) {
		source = fa.local
	}
	v := source.Section(section).Key(key).String()
	return v, v != ""
}

// AuthorName returns user.name, if set.
func (fa *FileAggregate) AuthorName() (string, bool) {
	return fa.value("user", "name")
}

// AuthorEmail returns user.email, if set.
func (fa *FileAggregate) AuthorEmail() (string, bool) {
	return fa.value("user", "email")
}

// DefaultBranch returns init.defaultBranch, if set.
func (fa *FileAggregate) DefaultBranch() (string, bool) {
	return fa.value("init", "defaultBranch")
}

// WorkTree returns core.worktree, if set.
func (fa *FileAggregate) WorkTree() (string, bool) {
	return fa.value("core", "worktree")
}

// RepoFormatVersion returns core.repositoryformatversion, if set.
func (fa *FileAggregate) RepoFormatVersion() (int, bool) {
	source := fa.global
	if fa.local.Section("core").HasKey("repositoryformatversion") {
		source = fa.local
	}
	v, err := source.Section("core").Key("repositoryformatversion").Int()
	if err != nil {
		return 0, false
	}
	return v, true
}

// NewFileAggregate loads and merges every applicable gitconfig file.
func NewFileAggregate(e *env.Env, cfg *Config) (fa *FileAggregate, err error) {
	fa = &FileAggregate{cfg: cfg}
	paths := configPaths(e, cfg)

	// ini.Load wants concrete readers, not paths, so that the caller
	// can swap in any afero filesystem (the real one, or an in-memory
	// one for tests).
	files := make([]interface{}, 0, len(paths))
	for _, p := range paths {
		if _, statErr := cfg.FS.Stat(p); statErr != nil {
			if errors.Is(statErr, os.ErrNotExist) {
				continue
			}
			return nil, xerrors.Errorf("could not check file %s: %w", p, statErr)
		}

		f, openErr := cfg.FS.Open(p)
		if openErr != nil {
			return nil, xerrors.Errorf("could not open file %s: %w", p, openErr)
		}
		files = append(files, f)
	}
	defer func() {
		for _, f := range files {
			_ = f.(io.ReadCloser).Close()
		}
	}()

	fa.global = ini.Empty(defaultLoadOptions)
	switch len(files) {
	case 0:
		if fa.local, err = defaultConfig(); err != nil {
			return nil, xerrors.Errorf("could not create default local config: %w", err)
		}
	default:
		if len(files) > 1 {
			fa.global, err = ini.LoadSources(defaultLoadOptions, files[0], files[1:len(files)-1]...)
			if err != nil {
				return nil, xerrors.Errorf("could not aggregate config files: %w", err)
			}
		}
		fa.local, err = ini.LoadSources(defaultLoadOptions, files[len(files)-1])
		if err != nil {
			return nil, xerrors.Errorf("could not load config file: %w", err)
		}
	}
	return fa, nil
}

func appendIfSet(paths *[]string, base string, parts ...string) {
	if base != "" {
		*paths = append(*paths, filepath.Join(base, filepath.Join(parts...)))
	}
}

// configPaths returns the paths checked for a gitconfig file, ordered
// from lowest to highest precedence (the repository's own config file
// always comes last).
func configPaths(e *env.Env, cfg *Config) []string {
	paths := []string{}

	if !cfg.SkipSystemConfig && cfg.Prefix != "" {
		paths = append(paths, filepath.Join(cfg.Prefix, "etc", "gitconfig"))
	}

	switch runtime.GOOS {
	case "windows":
		if !cfg.SkipSystemConfig && cfg.Prefix == "" {
			appendIfSet(&paths, e.Get("ALLUSERSPROFILE"), "Application Data", "Git", "config")
			appendIfSet(&paths, e.Get("ProgramFiles(x86)"), "Git", "etc", "gitconfig")
			appendIfSet(&paths, e.Get("ProgramFiles"), "Git", "mingw64", "etc", "gitconfig")
		}
		appendIfSet(&paths, e.Get("USERPROFILE"), ".gitconfig")
	default:
		if !cfg.SkipSystemConfig && cfg.Prefix == "" {
			paths = append(paths,
				"/etc/gitconfig",
				"/usr/local/etc/gitconfig",
				"/opt/homebrew/etc/gitconfig",
			)
		}
		if e.Get("XDG_CONFIG_HOME") != "" {
			paths = append(paths, filepath.Join(e.Get("XDG_CONFIG_HOME"), "git", "config"))
		}
	}
	appendIfSet(&paths, e.Get("HOME"), ".gitconfig")
	paths = append(paths, cfg.LocalConfig)
	return paths
}
