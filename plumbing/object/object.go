// Package object contains the parsers and builders for the three object
// types the engine persists: blobs, trees, and commits. Every Object
// shares the same framing (type, size, NUL, payload) and is addressed
// by the SHA-1 of that framed form.
package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/lumenvcs/lumen/internal/readutil"
	"github.com/lumenvcs/lumen/plumbing"
	"golang.org/x/xerrors"
)

var (
	// ErrObjectUnknown is returned when a type tag doesn't match a known
	// object type.
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrObjectInvalid is returned when an object's payload doesn't match
	// the type it's being parsed as.
	ErrObjectInvalid = errors.New("invalid object")

	// ErrTreeInvalid is returned when a tree's payload can't be parsed.
	ErrTreeInvalid = errors.New("invalid tree")

	// ErrCommitInvalid is returned when a commit's payload can't be
	// parsed or is missing a required field.
	ErrCommitInvalid = errors.New("invalid commit")
)

// Type is the tag stored in an object's frame header.
type Type int8

// The three object types this engine persists. Git also defines "tag"
// and two packfile delta types; this engine has no packfile and no tag
// support, so those aren't represented here.
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	default:
		panic(fmt.Sprintf("unknown object type %d", t))
	}
}

// NewTypeFromString parses an object type from its wire-format name.
func NewTypeFromString(s string) (Type, error) {
	switch s {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	default:
		return 0, xerrors.Errorf("%s: %w", s, ErrObjectUnknown)
	}
}

// Object is a parsed git object: a type tag plus its raw payload (the
// content *after* the "<type> <size>\0" frame header). Objects are
// immutable once created; their id is the SHA-1 of the framed form.
type Object struct {
	id      plumbing.Oid
	typ     Type
	content []byte
}

// New builds an object of the given type around content, computing its
// id from the framed representation.
func New(typ Type, content []byte) *Object {
	o := &Object{typ: typ, content: content}
	o.id = plumbing.FromContent(o.framed())
	return o
}

// ID returns the object's content-addressed id.
func (o *Object) ID() plumbing.Oid {
	return o.id
}

// Type returns the object's type tag.
func (o *Object) Type() Type {
	return o.typ
}

// Size returns the length of the object's payload, not counting the
// frame header.
func (o *Object) Size() int {
	return len(o.content)
}

// Bytes returns the object's payload.
func (o *Object) Bytes() []byte {
	return o.content
}

// framed renders "<type> <size>\0<content>", the bytes that are hashed
// and, once zlib-compressed, written to the object database.
func (o *Object) framed() []byte {
	w := new(bytes.Buffer)
	w.WriteString(o.typ.String())
	w.WriteByte(' ')
	w.WriteString(strconv.Itoa(o.Size()))
	w.WriteByte(0)
	w.Write(o.content)
	return w.Bytes()
}

// Frame returns the framed representation without compressing it. The
// object database compresses this before writing it to disk.
func (o *Object) Frame() []byte {
	return o.framed()
}

// AsBlob parses the object as a Blob.
func (o *Object) AsBlob() (*Blob, error) {
	if o.typ != TypeBlob {
		return nil, xerrors.Errorf("type %s is not a blob: %w", o.typ, ErrObjectInvalid)
	}
	return &Blob{rawObject: o}, nil
}

// AsTree parses the object as a Tree.
//
// A tree's payload is a sequence of entries, each shaped:
//
//	{octal_mode} {path}\0{20-byte raw id}
func (o *Object) AsTree() (*Tree, error) {
	if o.typ != TypeTree {
		return nil, xerrors.Errorf("type %s is not a tree: %w", o.typ, ErrObjectInvalid)
	}

	var entries []TreeEntry
	data := o.Bytes()
	offset := 0
	for i := 1; offset < len(data); i++ {
		modeBytes := readutil.ReadTo(data[offset:], ' ')
		if len(modeBytes) == 0 {
			return nil, xerrors.Errorf("could not retrieve the mode of entry %d: %w", i, ErrTreeInvalid)
		}
		offset += len(modeBytes) + 1

		mode, err := strconv.ParseInt(string(modeBytes), 8, 32)
		if err != nil {
			return nil, xerrors.Errorf("could not parse mode of entry %d: %w", i, err)
		}

		pathBytes := readutil.ReadTo(data[offset:], 0)
		if len(pathBytes) == 0 {
			return nil, xerrors.Errorf("could not retrieve the path of entry %d: %w", i, ErrTreeInvalid)
		}
		offset += len(pathBytes) + 1

		if offset+plumbing.OidSize > len(data) {
			return nil, xerrors.Errorf("not enough space to retrieve the id of entry %d: %w", i, ErrTreeInvalid)
		}
		id, err := plumbing.FromBytes(data[offset : offset+plumbing.OidSize])
		if err != nil {
			return nil, xerrors.Errorf("invalid id for entry %d: %w", i, ErrTreeInvalid)
		}
		offset += plumbing.OidSize

		entries = append(entries, TreeEntry{
			Mode: Mode(mode),
			Path: string(pathBytes),
			ID:   id,
		})
	}

	return &Tree{rawObject: o, entries: entries}, nil
}

// AsCommit parses the object as a Commit.
//
// A commit's payload is a run of "key value" header lines, followed by
// a blank line, followed by the free-form commit message:
//
//	tree {id}
//	parent {id}
//	author {name} <{email}> {seconds} {tz}
//	committer {name} <{email}> {seconds} {tz}
//
//	{message}
//
// A commit may have zero parent lines (the root commit of a history),
// exactly one (the common case), or more than one (a merge, which this
// engine never creates but must still be able to parse and display).
func (o *Object) AsCommit() (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, xerrors.Errorf("type %s is not a commit: %w", o.typ, ErrObjectInvalid)
	}

	ci := &Commit{rawObject: o}
	data := o.Bytes()
	offset := 0
	for {
		line := readutil.ReadTo(data[offset:], '\n')
		offset += len(line) + 1

		if len(line) == 0 && offset == 1 {
			return nil, xerrors.Errorf("could not find commit first line: %w", ErrCommitInvalid)
		}
		if len(line) == 0 {
			if offset < len(data) {
				ci.message = string(data[offset:])
			}
			break
		}

		kv := bytes.SplitN(line, []byte{' '}, 2)
		var err error
		switch string(kv[0]) {
		case "tree":
			ci.treeID, err = plumbing.FromHex(string(kv[1]))
			if err != nil {
				return nil, xerrors.Errorf("could not parse tree id %q: %w", kv[1], err)
			}
		case "parent":
			parentID, perr := plumbing.FromHex(string(kv[1]))
			if perr != nil {
				return nil, xerrors.Errorf("could not parse parent id %q: %w", kv[1], perr)
			}
			ci.parentIDs = append(ci.parentIDs, parentID)
		case "author":
			ci.author, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse author signature %q: %w", kv[1], err)
			}
		case "committer":
			ci.committer, err = NewSignatureFromBytes(kv[1])
			if err != nil {
				return nil, xerrors.Errorf("could not parse committer signature %q: %w", kv[1], err)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if ci.author.IsZero() {
		return nil, xerrors.Errorf("commit has no author: %w", ErrCommitInvalid)
	}
	if ci.treeID.IsZero() {
		return nil, xerrors.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}

	return ci, nil
}
