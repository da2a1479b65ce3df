package pathutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/lumenvcs/lumen/internal/gitpath"
	"golang.org/x/xerrors"
)

// ErrNoRepo is returned when no repository is found.
var ErrNoRepo = errors.New("not a git repository (or any of the parent directories)")

// WorkingTree returns the absolute path to the root of the repository
// containing the current working directory.
func WorkingTree() (path string, err error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", xerrors.Errorf("could not get current working directory: %w", err)
	}
	return WorkingTreeFromPath(wd)
}

// WorkingTreeFromPath walks p and its ancestors looking for a directory
// containing a ".git" directory, returning the first one found.
func WorkingTreeFromPath(p string) (path string, err error) {
	prev := ""
	for p != prev {
		info, err := os.Stat(filepath.Join(p, gitpath.DotGitPath))
		if err == nil && info.IsDir() {
			return p, nil
		}

		prev = p
		p = filepath.Dir(p)
	}
	return "", ErrNoRepo
}
