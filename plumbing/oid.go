// Package plumbing holds the identity type every other package in this
// module builds on: the content-addressed object id.
package plumbing

import (
	"bytes"
	"errors"

	"github.com/lumenvcs/lumen/internal/githash"
)

// OidSize is the length of an Oid, in bytes.
const OidSize = githash.Size

// ShortLen is the number of hex characters in a short id.
const ShortLen = 7

var (
	// NullOid is the value of an empty Oid, or one that's all 0s.
	NullOid = Oid{}

	// ErrInvalidOid is returned when a given value isn't a valid Oid.
	ErrInvalidOid = errors.New("invalid object id")
)

// Oid is a 20-byte SHA-1 object id.
type Oid [OidSize]byte

// Bytes returns the raw bytes of the Oid.
func (o Oid) Bytes() []byte {
	return o[:]
}

// String renders the Oid as 40 lowercase hex characters.
func (o Oid) String() string {
	return githash.Hex(o[:])
}

// Short renders the first ShortLen hex characters of the Oid. This is a
// display/lookup convenience only; it is not guaranteed unique.
func (o Oid) Short() string {
	return o.String()[:ShortLen]
}

// IsZero reports whether o is the all-zero Oid.
func (o Oid) IsZero() bool {
	return o == NullOid
}

// Compare returns -1, 0 or 1 as o is byte-lexicographically less than,
// equal to, or greater than other.
func (o Oid) Compare(other Oid) int {
	return bytes.Compare(o[:], other[:])
}

// Less reports whether o sorts before other.
func (o Oid) Less(other Oid) bool {
	return o.Compare(other) < 0
}

// FromContent returns the Oid that is the SHA-1 sum of data.
func FromContent(data []byte) Oid {
	return githash.Sum(data)
}

// FromBytes builds an Oid from exactly OidSize raw bytes.
func FromBytes(raw []byte) (Oid, error) {
	if len(raw) != OidSize {
		return NullOid, ErrInvalidOid
	}
	var oid Oid
	copy(oid[:], raw)
	return oid, nil
}

// FromHex parses a 40-character hex string into an Oid.
func FromHex(s string) (Oid, error) {
	raw, err := githash.FromHex(s)
	if err != nil {
		return NullOid, ErrInvalidOid
	}
	return FromBytes(raw)
}
