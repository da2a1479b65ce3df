package object

import "github.com/lumenvcs/lumen/plumbing"

// Blob is a parsed blob object: the raw bytes of a file, addressed by
// content.
type Blob struct {
	rawObject *Object
}

// NewBlob wraps content in a Blob object, computing its id.
func NewBlob(content []byte) *Blob {
	return &Blob{rawObject: New(TypeBlob, content)}
}

// ID returns the blob's content-addressed id.
func (b *Blob) ID() plumbing.Oid {
	return b.rawObject.ID()
}

// Bytes returns the blob's content.
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// Size returns the length of the blob's content.
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// ToObject returns the underlying Object for this blob.
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
