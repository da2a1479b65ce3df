package object

import (
	"bytes"
	"strconv"

	"github.com/lumenvcs/lumen/plumbing"
)

// Mode is the octal file mode recorded in a tree entry. Git only allows
// a small, fixed set of values; anything else is a malformed tree.
type Mode int32

// The modes a tree entry may carry.
const (
	ModeFile       Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeDirectory  Mode = 0o040000
	ModeSymlink    Mode = 0o120000
	ModeGitlink    Mode = 0o160000
)

// IsValid reports whether m is one of the modes this engine recognizes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeFile, ModeExecutable, ModeDirectory, ModeSymlink, ModeGitlink:
		return true
	default:
		return false
	}
}

// ObjectType returns the object type a tree entry with this mode points
// at.
func (m Mode) ObjectType() Type {
	switch m {
	case ModeDirectory:
		return TypeTree
	case ModeGitlink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// Tree is a parsed directory listing: an ordered set of name-to-id
// entries, each tagged with the mode of the thing it points to.
type Tree struct {
	rawObject *Object
	entries   []TreeEntry
}

// TreeEntry is one entry of a Tree.
type TreeEntry struct {
	Path string
	ID   plumbing.Oid
	Mode Mode
}

// NewTree builds a Tree from entries, which must already be sorted by
// Path the way Git's own tree-writer sorts them (plain lexicographic
// byte order over the entry name).
func NewTree(entries []TreeEntry) *Tree {
	t := &Tree{entries: entries}
	t.rawObject = t.toObject()
	return t
}

// Entries returns a copy of the tree's entries.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ID returns the tree's content-addressed id.
func (t *Tree) ID() plumbing.Oid {
	return t.rawObject.ID()
}

// ToObject returns the underlying Object for this tree.
func (t *Tree) ToObject() *Object {
	return t.rawObject
}

func (t *Tree) toObject() *Object {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(strconv.FormatInt(int64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(e.ID.Bytes())
	}
	return New(TypeTree, buf.Bytes())
}
