// Package index implements the staging file between the worktree and
// commits: a parsed binary index with a checksum trailer, and the
// directory-bookkeeping needed to resolve file/directory path
// collisions as entries are added and removed.
package index

import (
	"time"

	"github.com/lumenvcs/lumen/plumbing"
)

// Mode is the subset of a file's mode bits the index records. Modes
// read off disk are coerced to one of these two values; the index
// never stores arbitrary permission bits.
type Mode uint32

// The only two regular-file modes the index can hold.
const (
	ModeFile       Mode = 0o100644
	ModeExecutable Mode = 0o100755
)

// Entry is one record of a tracked path: its last-known filesystem
// metadata plus the id of the blob it was staged as.
type Entry struct {
	CTime time.Time
	MTime time.Time
	Dev   uint32
	Ino   uint32
	Mode  Mode
	UID   uint32
	GID   uint32
	// Size is the low 32 bits of the file's true size, per the index
	// format; it's only ever used as a cheap modification heuristic,
	// never as an authoritative size.
	Size uint32
	ID   plumbing.Oid
	// Path is the entry's path relative to the worktree root, using
	// forward slashes regardless of host OS.
	Path string
}

// Equal reports whether two entries hold the same field values.
func (e Entry) Equal(other Entry) bool {
	return e.CTime.Equal(other.CTime) &&
		e.MTime.Equal(other.MTime) &&
		e.Dev == other.Dev &&
		e.Ino == other.Ino &&
		e.Mode == other.Mode &&
		e.UID == other.UID &&
		e.GID == other.GID &&
		e.Size == other.Size &&
		e.ID == other.ID &&
		e.Path == other.Path
}
