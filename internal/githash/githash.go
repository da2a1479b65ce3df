// Package githash wraps the SHA-1 and hex encoding primitives the rest of
// the engine builds object identity on top of.
package githash

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is Git's object hash, not used for security here
	"encoding/hex"

	"golang.org/x/xerrors"
)

// Size is the length, in bytes, of a SHA-1 sum.
const Size = sha1.Size

// Sum returns the SHA-1 digest of data.
func Sum(data []byte) [Size]byte {
	return sha1.Sum(data)
}

// Hex lowercase-hex-encodes b.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex strictly decodes a hex string, rejecting anything that isn't an
// even number of valid hex characters.
func FromHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, xerrors.Errorf("invalid hex string %q: %w", s, err)
	}
	return b, nil
}
