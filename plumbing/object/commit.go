package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lumenvcs/lumen/internal/readutil"
	"github.com/lumenvcs/lumen/plumbing"
)

// ErrSignatureInvalid is returned when a commit's author/committer line
// can't be parsed.
var ErrSignatureInvalid = errors.New("commit signature is invalid")

// Signature is the author or committer of a commit: a name, an email,
// and the moment the commit was made, in the timezone active at that
// moment.
type Signature struct {
	Time  time.Time
	Name  string
	Email string
}

// String renders the signature the way Git stores it in a commit
// object: "Name <email> seconds tz".
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Time.Unix(), s.Time.Format("-0700"))
}

// IsZero reports whether the signature has never been set.
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature builds a signature stamped with the current time, in the
// local timezone.
func NewSignature(name, email string) Signature {
	return Signature{Name: name, Email: email, Time: time.Now()}
}

// NewSignatureFromBytes parses a signature line of the form
// "Name <email> seconds tz".
func NewSignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature

	nameBytes := readutil.ReadTo(b, '<')
	if len(nameBytes) == 0 {
		return sig, fmt.Errorf("could not retrieve the name: %w", ErrSignatureInvalid)
	}
	sig.Name = strings.TrimSpace(string(nameBytes))
	offset := len(nameBytes) + 1
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the name: %w", ErrSignatureInvalid)
	}

	emailBytes := readutil.ReadTo(b[offset:], '>')
	if len(emailBytes) == 0 {
		return sig, fmt.Errorf("could not retrieve the email: %w", ErrSignatureInvalid)
	}
	sig.Email = string(emailBytes)
	offset += len(emailBytes) + 2 // skip "> "
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the email: %w", ErrSignatureInvalid)
	}

	timestampBytes := readutil.ReadTo(b[offset:], ' ')
	if len(timestampBytes) == 0 {
		return sig, fmt.Errorf("could not retrieve the timestamp: %w", ErrSignatureInvalid)
	}
	offset += len(timestampBytes) + 1
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the timestamp: %w", ErrSignatureInvalid)
	}

	seconds, err := strconv.ParseInt(string(timestampBytes), 10, 64)
	if err != nil {
		return sig, fmt.Errorf("invalid timestamp %s (%v): %w", timestampBytes, err, ErrSignatureInvalid)
	}
	sig.Time = time.Unix(seconds, 0)

	tzBytes := b[offset:]
	tz, err := time.Parse("-0700", string(tzBytes))
	if err != nil {
		return sig, fmt.Errorf("invalid timezone %s (%v): %w", tzBytes, err, ErrSignatureInvalid)
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// CommitOptions holds the fields of a new commit beyond its tree and
// author.
type CommitOptions struct {
	Message   string
	Committer Signature // defaults to Author when zero
	ParentIDs []plumbing.Oid
}

// Commit is a parsed commit object: a tree snapshot, zero or more
// parents, the people who made and recorded the change, and a message.
type Commit struct {
	rawObject *Object

	author    Signature
	committer Signature

	message string

	parentIDs []plumbing.Oid
	treeID    plumbing.Oid
}

// NewCommit builds a new Commit around treeID. The caller is
// responsible for having already stored that tree (and its parents'
// commits) in the object database.
func NewCommit(treeID plumbing.Oid, author Signature, opts CommitOptions) *Commit {
	c := &Commit{
		treeID:    treeID,
		author:    author,
		committer: opts.Committer,
		message:   opts.Message,
		parentIDs: opts.ParentIDs,
	}
	if c.committer.IsZero() {
		c.committer = author
	}
	c.rawObject = c.toObject()
	return c
}

// ID returns the commit's content-addressed id.
func (c *Commit) ID() plumbing.Oid {
	return c.rawObject.ID()
}

// Author returns the signature of whoever authored the change.
func (c *Commit) Author() Signature {
	return c.author
}

// Committer returns the signature of whoever recorded the commit.
func (c *Commit) Committer() Signature {
	return c.committer
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns a copy of the commit's parent ids. The root commit
// of a history has none; an ordinary commit has one; this engine never
// creates a commit with more than one, but can parse and display one
// that does.
func (c *Commit) ParentIDs() []plumbing.Oid {
	out := make([]plumbing.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// FirstParentID returns the commit's first parent and whether it has
// one at all.
func (c *Commit) FirstParentID() (plumbing.Oid, bool) {
	if len(c.parentIDs) == 0 {
		return plumbing.NullOid, false
	}
	return c.parentIDs[0], true
}

// TreeID returns the id of the tree this commit snapshots.
func (c *Commit) TreeID() plumbing.Oid {
	return c.treeID
}

// ToObject returns the underlying Object for this commit.
func (c *Commit) ToObject() *Object {
	return c.rawObject
}

func (c *Commit) toObject() *Object {
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')

	for _, p := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}

	buf.WriteString("author ")
	buf.WriteString(c.author.String())
	buf.WriteByte('\n')

	buf.WriteString("committer ")
	buf.WriteString(c.committer.String())
	buf.WriteByte('\n')

	buf.WriteByte('\n')
	buf.WriteString(c.message)

	return New(TypeCommit, buf.Bytes())
}
