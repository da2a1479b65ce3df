package index

import (
	"errors"
	"os"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Load reads and decodes the index file at path. A missing file is not
// an error: it's treated as a brand new, empty index, matching a
// freshly initialized repository that has never staged anything.
func Load(fs afero.Fs, path string) (*Index, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, xerrors.Errorf("could not read index at %s: %w", path, err)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, xerrors.Errorf("could not parse index at %s: %w", path, err)
	}
	return idx, nil
}
