package refs

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/plumbing"
	"golang.org/x/xerrors"
)

// ErrNoParent is returned when a '^' or '~N' suffix walks past a commit
// that has no parent.
var ErrNoParent = errors.New("commit has no parent")

// ancestorSuffix matches the rightmost "~DIGITS" at the end of a
// revision string.
var ancestorSuffix = regexp.MustCompile(`^(.*)~([0-9]+)$`)

// Resolve parses and resolves a revision of the form:
//
//	rev := NAME | rev '^' | rev '~' DIGITS
//
// NAME delegates to Deref. 'rev^' and 'rev~1' both mean the first
// parent of resolve(rev); 'rev~N' walks N hops via first parent.
// Parsing proceeds right-to-left: the trailing operator is peeled off
// first and applied to whatever the remaining prefix resolves to, so
// "HEAD~2^" means "one more parent hop past HEAD~2".
func Resolve(gitDir string, store *odb.Store, rev string) (plumbing.Oid, error) {
	if len(rev) > 0 && rev[len(rev)-1] == '^' {
		base, err := Resolve(gitDir, store, rev[:len(rev)-1])
		if err != nil {
			return plumbing.NullOid, err
		}
		return firstParent(store, base)
	}

	if m := ancestorSuffix.FindStringSubmatch(rev); m != nil {
		base, err := Resolve(gitDir, store, m[1])
		if err != nil {
			return plumbing.NullOid, err
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return plumbing.NullOid, xerrors.Errorf("invalid ancestor count in %q: %w", rev, err)
		}
		for i := 0; i < n; i++ {
			base, err = firstParent(store, base)
			if err != nil {
				return plumbing.NullOid, err
			}
		}
		return base, nil
	}

	return Deref(gitDir, rev)
}

func firstParent(store *odb.Store, id plumbing.Oid) (plumbing.Oid, error) {
	c, err := store.LoadCommit(id)
	if err != nil {
		return plumbing.NullOid, xerrors.Errorf("could not load commit %s: %w", id.Short(), err)
	}
	parent, ok := c.FirstParentID()
	if !ok {
		return plumbing.NullOid, xerrors.Errorf("%s: %w", id.Short(), ErrNoParent)
	}
	return parent, nil
}
